package park

import (
	"database/sql"

	"go.uber.org/zap"

	bookingrepo "parkbooking/internal/booking/repository"
	"parkbooking/internal/commons"
	"parkbooking/internal/infrastructure/database"
	"parkbooking/internal/park/controller"
	"parkbooking/internal/park/repository"
	"parkbooking/internal/park/service"
)

type Module struct {
	Controller *controller.ParkController
	Service    *service.ParkService
}

func NewModule(db *sql.DB, driver string, txMgr *database.TxManager, locks *commons.KeyedMutex, logger *zap.Logger) *Module {
	parkRepo := repository.NewSQLParkRepository(db, driver)
	bookingRepo := bookingrepo.NewSQLBookingRepository(db)

	svc := service.NewParkService(txMgr, parkRepo, bookingRepo, locks, logger)
	return &Module{
		Controller: controller.NewParkController(svc, logger),
		Service:    svc,
	}
}
