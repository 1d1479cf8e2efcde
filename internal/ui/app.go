package ui

import (
	"go.uber.org/zap"

	"github.com/campusconnect/quad/internal/api"
	"github.com/campusconnect/quad/internal/config"
	"github.com/campusconnect/quad/internal/session"
	"github.com/campusconnect/quad/internal/store"
)

// App carries what every screen needs: the backend client, the local cache,
// configuration, the log and the current session. Screens receive it by
// pointer and hand it to whichever screen they transition to.
type App struct {
	Client  *api.Client
	Store   *store.Store
	Cfg     config.Config
	Log     *zap.Logger
	DataDir string
	User    *session.Session
}

// Username returns the viewer's handle, or empty when logged out.
func (a *App) Username() string {
	if a.User == nil {
		return ""
	}
	return a.User.Username
}
