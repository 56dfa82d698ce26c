package checkout

import (
	"go.uber.org/zap"

	cartservice "parkbooking/internal/cart/service"
	"parkbooking/internal/checkout/controller"
	"parkbooking/internal/checkout/gateway"
	"parkbooking/internal/checkout/service"
)

func NewModule(carts *cartservice.CartService, logger *zap.Logger) *controller.CheckoutController {
	svc := service.NewCheckoutService(carts, gateway.NewMock(logger), logger)
	return controller.NewCheckoutController(svc, carts, logger)
}
