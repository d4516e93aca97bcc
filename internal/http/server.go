// Package http renders the expense form, table, and totals, and translates
// user gestures into ledger and view-state operations.
package http

import (
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"tracker/internal/ledger"
	applog "tracker/internal/log"
	"tracker/internal/view"
	appweb "tracker/web"
)

type Server struct {
	http.Server
	templates *template.Template
	ledger    *ledger.Ledger
	view      *view.State
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, l *ledger.Ledger, vs *view.State) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: applog.Middleware(withSecurityHeaders(mux)),
		},
		ledger: l,
		view:   vs,
	}

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)
	mux.HandleFunc("/expenses", s.handleCreateExpense)
	mux.HandleFunc("/expenses/update", s.handleUpdateExpense)
	mux.HandleFunc("/expenses/delete", s.handleDeleteExpense)
	mux.HandleFunc("/filter", s.handleSetFilter)
	// UI partials
	mux.HandleFunc("/ui/expenses", s.handleExpenseTable)
	mux.HandleFunc("/ui/totals", s.handleTotals)
	mux.HandleFunc("/ui/form-category", s.handleFormCategory)
	mux.HandleFunc("/ui/edit", s.handleBeginEdit)
	mux.HandleFunc("/ui/edit/cancel", s.handleCancelEdit)
	mux.HandleFunc("/ui/clock", s.handleClock)

	return s
}

// withSecurityHeaders adds the standard response headers to every request.
func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com; style-src 'self' 'unsafe-inline'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
