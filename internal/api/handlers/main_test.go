package handlers

import (
	"os"
	"testing"

	"github.com/artisanhub/server/pkg/logger"
)

func TestMain(m *testing.M) {
	if _, err := logger.Init("error", "console"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}
