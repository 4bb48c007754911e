package main

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gastos/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

// App carries the shared dependencies for every handler: the store handle is
// opened once at startup and passed by reference, never rebuilt per request.
type App struct {
	db     *gorm.DB
	cfg    *Config
	log    *slog.Logger
	secret []byte
	oauth  *oauth2.Config
}

func NewApp(db *gorm.DB, cfg *Config, log *slog.Logger) *App {
	return &App{
		db:     db,
		cfg:    cfg,
		log:    log,
		secret: []byte(cfg.SessionSecret),
		oauth:  newGoogleOAuth(cfg),
	}
}

func (a *App) setupRoutes(r *gin.Engine) {
	r.GET("/register", a.registerForm)
	r.POST("/register", a.registerSubmit)
	r.GET("/login", a.loginForm)
	r.POST("/login", a.loginSubmit)
	r.GET("/login/google", a.googleLogin)
	r.GET("/authorize", a.googleCallback)

	authGroup := r.Group("")
	authGroup.Use(a.requireUser())
	authGroup.GET("/", a.dashboard)
	authGroup.POST("/agregar", a.addTransaction)
	authGroup.GET("/delete/:id", a.deleteTransaction)
	authGroup.GET("/descargar_reporte", a.downloadReport)
	authGroup.GET("/logout", a.logout)
}

// requireUser guards the data-access routes: a missing or invalid session
// redirects to the login page, a valid one puts the user on the context.
func (a *App) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(sessionCookieName)
		if err != nil || raw == "" {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		uid, err := verifySessionToken(a.secret, raw)
		if err != nil {
			a.clearSessionCookie(c)
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		var user models.User
		if err := a.db.First(&user, uid).Error; err != nil {
			a.clearSessionCookie(c)
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Set("user", &user)
		c.Next()
	}
}

func currentUser(c *gin.Context) *models.User {
	if u, ok := c.Get("user"); ok {
		if user, ok := u.(*models.User); ok {
			return user
		}
	}
	return nil
}

// flashRedirect sends the caller back to the dashboard with a visible
// message. Mutation errors surface this way instead of disappearing.
func flashRedirect(c *gin.Context, msg string) {
	c.Redirect(http.StatusFound, "/?error="+url.QueryEscape(msg))
}

func (a *App) dashboard(c *gin.Context) {
	user := currentUser(c)
	year, month := parsePeriod(c.Query("anio"), c.Query("mes"), time.Now().UTC())

	txs, err := ListTransactions(a.db, user.ID, year, month)
	if err != nil {
		a.log.Error("dashboard query failed", "user_id", user.ID, "error", err)
		c.String(http.StatusInternalServerError, "query failed")
		return
	}
	periods, err := DistinctPeriods(a.db, user.ID)
	if err != nil {
		a.log.Error("periods query failed", "user_id", user.ID, "error", err)
		c.String(http.StatusInternalServerError, "query failed")
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"Username":     user.Username,
		"Year":         year,
		"Month":        month,
		"Transactions": txs,
		"Summary":      Summarize(txs),
		"Categories":   GroupExpensesByCategory(txs),
		"Periods":      periods,
		"Error":        c.Query("error"),
	})
}

func (a *App) addTransaction(c *gin.Context) {
	user := currentUser(c)
	if err := c.Request.ParseForm(); err != nil {
		flashRedirect(c, "formulario invalido")
		return
	}
	form, err := parseTransactionForm(c.Request.PostForm, time.Now().UTC())
	if err != nil {
		flashRedirect(c, err.Error())
		return
	}
	tx, err := AddTransaction(a.db, user.ID, form)
	if err != nil {
		a.log.Error("add transaction failed", "user_id", user.ID, "error", err)
		flashRedirect(c, "no se pudo guardar la transaccion")
		return
	}
	a.log.Info("transaction added", "user_id", user.ID, "transaction_id", tx.ID, "type", tx.Type, "amount", tx.Amount)
	c.Redirect(http.StatusFound, "/")
}

func (a *App) deleteTransaction(c *gin.Context) {
	user := currentUser(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		flashRedirect(c, "id invalido")
		return
	}
	if err := DeleteTransaction(a.db, uint(id), user.ID); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			flashRedirect(c, "transaccion no encontrada")
		case errors.Is(err, ErrForbidden):
			a.log.Warn("forbidden delete attempt", "user_id", user.ID, "transaction_id", id)
			flashRedirect(c, "no autorizado")
		default:
			a.log.Error("delete failed", "user_id", user.ID, "transaction_id", id, "error", err)
			flashRedirect(c, "no se pudo borrar la transaccion")
		}
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (a *App) downloadReport(c *gin.Context) {
	user := currentUser(c)
	year, month := parsePeriod(c.Query("anio"), c.Query("mes"), time.Now().UTC())

	txs, err := ListTransactions(a.db, user.ID, year, month)
	if err != nil {
		a.log.Error("report query failed", "user_id", user.ID, "error", err)
		c.String(http.StatusInternalServerError, "query failed")
		return
	}
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename=`+reportFileName(year, month))
	if err := writeCSVReport(c.Writer, txs); err != nil {
		a.log.Error("report write failed", "user_id", user.ID, "error", err)
	}
}

func (a *App) registerForm(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{})
}

func (a *App) registerSubmit(c *gin.Context) {
	username := c.PostForm("username")
	email := c.PostForm("email")
	password := c.PostForm("password")

	user, err := Register(a.db, username, email, password)
	if err != nil {
		// validation and duplicate errors render inline on the form
		c.HTML(http.StatusOK, "register.html", gin.H{
			"Error":    strings.TrimSpace(err.Error()),
			"Username": username,
			"Email":    email,
		})
		return
	}
	if err := a.setSessionCookie(c, user.ID); err != nil {
		c.HTML(http.StatusOK, "login.html", gin.H{"Error": "no se pudo iniciar sesion"})
		return
	}
	a.log.Info("user registered", "user_id", user.ID, "username", user.Username)
	c.Redirect(http.StatusFound, "/")
}

func (a *App) loginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Error":         c.Query("error"),
		"GoogleEnabled": a.oauth != nil,
	})
}

func (a *App) loginSubmit(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := Authenticate(a.db, username, password)
	if err != nil {
		c.HTML(http.StatusOK, "login.html", gin.H{
			"Error":         "usuario o password incorrectos",
			"Username":      username,
			"GoogleEnabled": a.oauth != nil,
		})
		return
	}
	if err := a.setSessionCookie(c, user.ID); err != nil {
		c.HTML(http.StatusOK, "login.html", gin.H{"Error": "no se pudo iniciar sesion"})
		return
	}
	a.log.Info("user logged in", "user_id", user.ID)
	c.Redirect(http.StatusFound, "/")
}

func (a *App) logout(c *gin.Context) {
	a.clearSessionCookie(c)
	c.Redirect(http.StatusFound, "/login")
}
