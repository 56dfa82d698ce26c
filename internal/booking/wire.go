package booking

import (
	"database/sql"

	"go.uber.org/zap"

	"parkbooking/internal/booking/controller"
	"parkbooking/internal/booking/repository"
	"parkbooking/internal/booking/service"
	"parkbooking/internal/commons"
	"parkbooking/internal/infrastructure/database"
	parkrepo "parkbooking/internal/park/repository"
)

func NewModule(
	db *sql.DB,
	driver string,
	txMgr *database.TxManager,
	locks *commons.KeyedMutex,
	publisher service.EventPublisher,
	logger *zap.Logger,
) *controller.BookingController {
	parkRepo := parkrepo.NewSQLParkRepository(db, driver)
	bookingRepo := repository.NewSQLBookingRepository(db)

	svc := service.NewBookingService(txMgr, parkRepo, bookingRepo, publisher, locks, logger)
	return controller.NewBookingController(svc, logger)
}
