package article

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
)

type ctxKey int8

const ctxKeyTitle ctxKey = iota

// TitleCtx middleware is used to load the article title from the URL
// parameters passed through as the request. chi routes on the escaped
// path only when it differs from the default encoding (a title holding a
// slash arrives as a%2Fb); that param is unescaped here. Otherwise the
// param is already decoded and is used as is.
func TitleCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		title := chi.URLParam(r, "title")
		if r.URL.RawPath != "" {
			if unescaped, err := url.PathUnescape(title); err == nil {
				title = unescaped
			}
		}

		ctx := context.WithValue(r.Context(), ctxKeyTitle, title)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TitleFromContext returns the title stored by TitleCtx.
func TitleFromContext(ctx context.Context) string {
	title, _ := ctx.Value(ctxKeyTitle).(string)

	return title
}
