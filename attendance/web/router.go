package web

import (
	"net/http"

	"axiapac.com/attendance/attendance/web/common"
	"axiapac.com/attendance/attendance/web/handlers/attendance"
	"axiapac.com/attendance/attendance/web/handlers/employees"
	"axiapac.com/attendance/attendance/web/handlers/reports"
	"axiapac.com/attendance/attendance/web/handlers/session"
	"axiapac.com/attendance/web/middlewares"
	"github.com/gin-gonic/gin"
)

type RouterOptions struct {
	// ReportTitle heads the summary sheet of exported workbooks.
	ReportTitle    string
	TrustedProxies []string
	Session        session.Options
}

// NewRouter wires every attendance endpoint onto a gin engine.
// Client addresses come from X-Forwarded-For only when the peer is a trusted proxy.
func NewRouter(base common.Handler, opts RouterOptions) (*gin.Engine, error) {
	r := gin.Default()
	if err := r.SetTrustedProxies(opts.TrustedProxies); err != nil {
		return nil, err
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	api := r.Group("/api")
	adminSession := api.Group("/admin")
	session.Register(adminSession, opts.Session)

	admin := api.Group("/admin")
	admin.Use(middlewares.Authentication(opts.Session.Secret))

	attendance.Register(api, admin, base)
	employees.Register(admin, base)
	reports.Register(admin, base, opts.ReportTitle)

	return r, nil
}
