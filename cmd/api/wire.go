//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"gooviral.app/checkout"
	"gooviral.app/checkout/config"
	"gooviral.app/checkout/driver"
	"gooviral.app/checkout/event"
	"gooviral.app/checkout/handlers"
	"gooviral.app/checkout/mailer"
	"gooviral.app/checkout/server"
	"gooviral.app/checkout/storage"
)

func InitializeServer() (*server.Server, error) {

	wire.Build(
		config.ProvideApplicationConfig,
		config.NewLogger,
		config.ProvidePostgresConn,
		config.ProvideRedis,
		config.ProvideNATS,
		driver.NewTransactionManager,
		event.NewRepository,
		event.NewService,
		storage.NewService,
		mailer.NewService,
		checkout.NewStripeCheckout,
		handlers.NewPaymentHandler,
		handlers.NewWebhookHandler,
		handlers.NewFeedbackHandler,
		server.NewServer,
	)

	return &server.Server{}, nil
}
