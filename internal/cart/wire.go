package cart

import (
	"database/sql"

	"go.uber.org/zap"

	bookingrepo "parkbooking/internal/booking/repository"
	"parkbooking/internal/cart/controller"
	"parkbooking/internal/cart/service"
	"parkbooking/internal/infrastructure/database"
	parkrepo "parkbooking/internal/park/repository"
)

type Module struct {
	Controller *controller.CartController
	Service    *service.CartService
}

// NewModule wires the cart feature on top of store, which is either the SQL or
// the Redis cart repository.
func NewModule(db *sql.DB, driver string, txMgr *database.TxManager, store service.CartRepository, logger *zap.Logger) *Module {
	parkRepo := parkrepo.NewSQLParkRepository(db, driver)
	bookingRepo := bookingrepo.NewSQLBookingRepository(db)

	svc := service.NewCartService(txMgr, store, bookingRepo, parkRepo, logger)
	return &Module{
		Controller: controller.NewCartController(svc, logger),
		Service:    svc,
	}
}
