package main

import (
	"os"

	"github.com/artemshadrunov/currency-api/internal/app"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := app.Run(); err != nil {
		logrus.WithError(err).Error("application stopped")
		os.Exit(1)
	}
}
