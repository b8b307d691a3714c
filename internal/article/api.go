package article

import (
	"errors"
	"net/http"

	"github.com/SergeyParamoshkin/wiki/internal/articlerequest"
	"github.com/SergeyParamoshkin/wiki/internal/articleresponse"
	"github.com/SergeyParamoshkin/wiki/internal/errresponse"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"
)

// Plain-text replies of the article endpoints.
const (
	MsgCreated    = "Successfully added a new article."
	MsgDeletedAll = "Successfully deleted all articles."
	MsgNotFound   = "No articles matching that title were found."
	MsgReplaced   = "Successfully replaced the article."
	MsgUpdated    = "Successfully updated the article."
	MsgDeleted    = "Successfully deleted the article."
)

// Handler serves the /articles resource. Every request maps to exactly
// one Store call.
type Handler struct {
	store  Store
	logger *zap.SugaredLogger
}

func NewHandler(store Store, logger *zap.SugaredLogger) *Handler {
	return &Handler{
		store:  store,
		logger: logger,
	}
}

// Routes returns the router to mount under /articles.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListArticles)      // GET /articles
	r.Post("/", h.CreateArticle)    // POST /articles
	r.Delete("/", h.DeleteArticles) // DELETE /articles

	r.Route("/{title}", func(r chi.Router) {
		r.Use(TitleCtx)                // Load the title on the request context
		r.Get("/", h.GetArticle)       // GET /articles/Jack%20Bauer
		r.Put("/", h.ReplaceArticle)   // PUT /articles/Jack%20Bauer
		r.Patch("/", h.UpdateArticle)  // PATCH /articles/Jack%20Bauer
		r.Delete("/", h.DeleteArticle) // DELETE /articles/Jack%20Bauer
	})

	return r
}

// ListArticles returns every stored article.
func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) {
	articles, err := h.store.List(r.Context())
	if err != nil {
		h.fail(w, r, err)

		return
	}

	h.logger.Debugw("listed articles", "count", len(articles))

	if err := render.RenderList(w, r, articleresponse.NewArticleListResponse(articles)); err != nil {
		h.renderErr(w, r, err)
	}
}

// CreateArticle persists the posted article. Duplicate titles are not
// checked for.
func (h *Handler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	data := &articlerequest.ArticleRequest{}
	if !h.bind(w, r, data) {
		return
	}

	h.logger.Debugw("create article", "title", data.Title, "content", data.Content)

	article := data.Update().Article()
	if err := h.store.Create(r.Context(), article); err != nil {
		h.fail(w, r, err)

		return
	}

	render.Status(r, http.StatusCreated)
	render.PlainText(w, r, MsgCreated)
}

// DeleteArticles removes the whole collection.
func (h *Handler) DeleteArticles(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteAll(r.Context()); err != nil {
		h.fail(w, r, err)

		return
	}

	render.PlainText(w, r, MsgDeletedAll)
}

// GetArticle returns the first article with the requested title. A miss
// is not an error: it answers 200 with MsgNotFound.
func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	article, err := h.store.FindByTitle(r.Context(), TitleFromContext(r.Context()))
	if errors.Is(err, ErrNotFound) {
		render.PlainText(w, r, MsgNotFound)

		return
	}

	if err != nil {
		h.fail(w, r, err)

		return
	}

	if err := render.Render(w, r, articleresponse.NewArticleResponse(article)); err != nil {
		h.renderErr(w, r, err)
	}
}

// ReplaceArticle overwrites the article wholesale: a field missing from
// the body is stored empty.
func (h *Handler) ReplaceArticle(w http.ResponseWriter, r *http.Request) {
	data := &articlerequest.ArticleRequest{}
	if !h.bind(w, r, data) {
		return
	}

	title := TitleFromContext(r.Context())
	h.logger.Debugw("replace article", "match", title, "title", data.Title, "content", data.Content)

	if err := h.store.Replace(r.Context(), title, data.Update().Article()); err != nil {
		h.fail(w, r, err)

		return
	}

	render.PlainText(w, r, MsgReplaced)
}

// UpdateArticle merges only the fields present in the body.
func (h *Handler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	data := &articlerequest.ArticleRequest{}
	if !h.bind(w, r, data) {
		return
	}

	title := TitleFromContext(r.Context())
	h.logger.Debugw("update article", "match", title, "title", data.Title, "content", data.Content)

	if err := h.store.Update(r.Context(), title, data.Update()); err != nil {
		h.fail(w, r, err)

		return
	}

	render.PlainText(w, r, MsgUpdated)
}

// DeleteArticle removes the first article with the requested title.
func (h *Handler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), TitleFromContext(r.Context())); err != nil {
		h.fail(w, r, err)

		return
	}

	render.PlainText(w, r, MsgDeleted)
}

func (h *Handler) bind(w http.ResponseWriter, r *http.Request, data render.Binder) bool {
	if err := render.Bind(r, data); err != nil {
		h.logger.Warnw("invalid request", "err", err)

		if err := render.Render(w, r, errresponse.ErrInvalidRequest(err)); err != nil {
			h.logger.Errorw(err.Error())
		}

		return false
	}

	return true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Errorw("datastore call failed", "method", r.Method, "path", r.URL.Path, "err", err)

	if err := render.Render(w, r, errresponse.ErrDatastore(err)); err != nil {
		h.logger.Errorw(err.Error())
	}
}

func (h *Handler) renderErr(w http.ResponseWriter, r *http.Request, err error) {
	if err := render.Render(w, r, errresponse.ErrRender(err)); err != nil {
		h.logger.Errorw(err.Error())
	}
}
