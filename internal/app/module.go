package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/mailotp/internal/emailverify"
)

func (a *App) initModules() {
	if !a.config.GetBool("modules.emailverify.enabled") {
		slog.Warn("module emailverify disabled")
		return
	}

	dep := emailverify.Dependency{
		Ctx:        a.ctx,
		Router:     a.router,
		Goroutine:  a.goroutine,
		Config:     a.config,
		Instrument: a.ins,
		Validator:  a.validator,
		Clock:      a.clock,
		UID:        a.uid,
		UUID:       a.uuid,
		DBConn:     a.dbConn,
		Mail:       a.mail,
		Messaging:  a.messaging,
	}
	if a.cacheConn != nil {
		dep.CacheConn = a.cacheConn
		dep.Idempotency = a.idemp
	}

	if err := emailverify.New(dep); err != nil {
		slog.Error("failed to init module emailverify", "error", err)
		os.Exit(1)
	}
}
