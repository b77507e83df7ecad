package server

import (
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/neurocarehub/webfront/apiclient"
)

const contentTypeHTML = "text/html; charset=utf-8"

// pageTemplate is the shared shell every server-rendered page uses. The
// toast surface subscribes to the SSE stream and renders whatever the
// session client publishes.
var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="{{.Locale}}">
<head>
<meta charset="utf-8">
<title>{{.Title}} — NeuroCare</title>
<link rel="stylesheet" href="/static/app.css">
</head>
<body>
<header>
<a href="/{{.Locale}}">NeuroCare</a>
{{if .User}}<span class="user">{{.User.Email}}</span> <a href="/{{.Locale}}/auth/logout">Log out</a>{{else}}<a href="/{{.Locale}}/auth/login">Log in</a>{{end}}
</header>
<main>
<h1>{{.Title}}</h1>
{{block "body" .}}{{end}}
</main>
<div id="toasts"></div>
<script src="/static/toasts.js"></script>
</body>
</html>`))

type PageData struct {
	Title  string
	Locale string
	User   *apiclient.User
	Error  string
	Data   any
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, data PageData) {
	if data.Locale == "" {
		data.Locale = s.locales.Resolve(r)
	}
	w.Header().Set("Content-Type", contentTypeHTML)
	if err := pageTemplate.Execute(w, data); err != nil {
		log.Err(err).Str("page", data.Title).Msg("failed to render page")
	}
}

// PageHandler renders a plain page with no backend data. The cognitive
// game widgets and most content pages are client-rendered and need
// nothing from the server beyond the shell.
func (s *Server) PageHandler(title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderPage(w, r, PageData{Title: title})
	}
}

func (s *Server) NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentTypeHTML)
		w.WriteHeader(http.StatusNotFound)
		s.renderPage(w, r, PageData{Title: "Page Not Found"})
	}
}
