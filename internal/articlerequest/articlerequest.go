package articlerequest

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/SergeyParamoshkin/wiki/internal/model"
	"github.com/go-chi/render"
)

var ErrUnsupportedContentType = errors.New("unsupported request content type")

// FormDecoder is implemented by payloads that can be filled from
// form-encoded bodies.
type FormDecoder interface {
	DecodeForm(form url.Values) error
}

// Decode is a render.Decode replacement: render v1 only decodes JSON and
// XML bodies. The type comes from the Content-Type header because
// render.SetContentType puts the response type on the request context,
// which render.GetRequestContentType prefers. An empty body decodes to
// nothing.
func Decode(r *http.Request, v interface{}) error {
	if r.Body == nil || r.Body == http.NoBody || r.ContentLength == 0 {
		return nil
	}

	switch render.GetContentType(r.Header.Get("Content-Type")) {
	case render.ContentTypeForm:
		fd, ok := v.(FormDecoder)
		if !ok {
			return ErrUnsupportedContentType
		}

		if err := r.ParseForm(); err != nil {
			return err
		}

		return fd.DecodeForm(r.PostForm)
	case render.ContentTypeJSON:
		return render.DecodeJSON(r.Body, v)
	case render.ContentTypeXML:
		return render.DecodeXML(r.Body, v)
	default:
		return ErrUnsupportedContentType
	}
}

// ArticleRequest is the request payload for Article data model. Fields the
// client did not send stay nil.
type ArticleRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func (a *ArticleRequest) DecodeForm(form url.Values) error {
	if vs, ok := form["title"]; ok && len(vs) > 0 {
		a.Title = &vs[0]
	}

	if vs, ok := form["content"]; ok && len(vs) > 0 {
		a.Content = &vs[0]
	}

	return nil
}

// Bind runs after decoding. Nothing is validated: any combination of
// fields, including none, is accepted.
func (a *ArticleRequest) Bind(r *http.Request) error {
	return nil
}

// Update returns the fields that were sent.
func (a *ArticleRequest) Update() model.ArticleUpdate {
	return model.ArticleUpdate{
		Title:   a.Title,
		Content: a.Content,
	}
}
