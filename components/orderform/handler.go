package orderform

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-orderstatus/pkg/dropdowns"
	"github.com/goliatone/go-orderstatus/pkg/orderstatus"
	"github.com/goliatone/go-orderstatus/pkg/render"
	"github.com/goliatone/go-orderstatus/pkg/renderers/vanilla"
)

type optionsResponse struct {
	Loading bool             `json:"loading"`
	Source  dropdowns.Origin `json:"source"`
	Data    dropdowns.Set    `json:"data"`
}

type submitResponse struct {
	Data   map[string]any                     `json:"data,omitempty"`
	Errors map[orderstatus.FieldName][]string `json:"errors,omitempty"`
}

// Handler builds the form handler mounted at basePath joined with the route
// path. Chi routers should Mount the result at MountPath(basePath).
func Handler(basePath string, fns ...OptionFn) (http.Handler, error) {
	opts := NewOptions(fns...)
	return HandlerWithOptions(basePath, opts)
}

// HandlerWithOptions builds the handler from a pre-constructed Options value.
func HandlerWithOptions(basePath string, opts Options) (http.Handler, error) {
	opts = NewOptions(func(o *Options) { *o = opts })
	return newHandler(mountPath(basePath, opts.RoutePath), opts)
}

type handler struct {
	base     string
	opts     Options
	sessions *sessionStore
	page     PageRenderer
	registry *render.Registry
	assets   http.Handler
}

func newHandler(base string, opts Options) (*handler, error) {
	page := opts.Page
	if page == nil {
		renderer, err := vanilla.New(vanilla.WithAssetsPath(joinRoute(base, strings.TrimSuffix(assetsRoute, "/"))))
		if err != nil {
			return nil, fmt.Errorf("orderform: build page renderer: %w", err)
		}
		page = renderer
	}

	registry := opts.Registry
	if registry == nil {
		registry = render.NewRegistry()
	}
	if !registry.Has(page.Name()) {
		if err := registry.Register(page); err != nil {
			return nil, fmt.Errorf("orderform: register page renderer: %w", err)
		}
	}

	return &handler{
		base:     base,
		opts:     opts,
		sessions: newSessionStore(opts),
		page:     page,
		registry: registry,
		assets:   http.StripPrefix(joinRoute(base, assetsRoute), http.FileServer(http.FS(vanilla.AssetsFS()))),
	}, nil
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r == nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if h.opts.Guard != nil {
		if err := h.opts.Guard(r); err != nil {
			writeError(w, err, http.StatusForbidden)
			return
		}
	}

	rest := strings.TrimPrefix(r.URL.Path, strings.TrimRight(h.base, "/"))
	if rest == "" {
		rest = "/"
	}

	switch {
	case rest == "/":
		if allowMethods(w, r, http.MethodGet, http.MethodHead) {
			h.servePage(w, r)
		}
	case rest == changeRoute:
		if allowMethods(w, r, http.MethodPost) {
			h.serveChange(w, r)
		}
	case rest == submitRoute:
		if allowMethods(w, r, http.MethodPost) {
			h.serveSubmit(w, r)
		}
	case rest == optionsRoute:
		if allowMethods(w, r, http.MethodGet, http.MethodHead) {
			h.serveOptions(w, r)
		}
	case rest == openAPIRoute:
		if allowMethods(w, r, http.MethodGet, http.MethodHead) {
			h.serveOpenAPI(w, r)
		}
	case strings.HasPrefix(rest, assetsRoute):
		if allowMethods(w, r, http.MethodGet, http.MethodHead) {
			h.assets.ServeHTTP(w, r)
		}
	default:
		http.NotFound(w, r)
	}
}

func (h *handler) servePage(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessions.get(h.sessionID(r))
	if !ok {
		s = h.sessions.create(r.Context())
		http.SetCookie(w, &http.Cookie{
			Name:     h.opts.SessionCookie,
			Value:    s.id,
			Path:     h.base,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	view := s.component.Snapshot()
	options := h.renderOptions(s)

	renderer, err := h.registry.Resolve(strings.TrimSpace(r.URL.Query().Get("format")), h.opts.DefaultFormat)
	if err != nil {
		writeError(w, badRequest(err), http.StatusBadRequest)
		return
	}

	var body []byte
	if renderer.Name() == h.page.Name() {
		body, err = h.page.RenderPage(r.Context(), view, options)
	} else {
		body, err = renderer.Render(r.Context(), view, options)
	}
	if err != nil {
		h.opts.Logger.Error().Err(err).Str("session", s.id).Msg("render order form")
		writeError(w, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(body)
}

func (h *handler) serveChange(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	s, err := h.lookup(r)
	if err != nil {
		writeError(w, err, http.StatusNotFound)
		return
	}

	field, err := orderstatus.ParseFieldName(r.FormValue("name"))
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}

	switch field.Kind() {
	case orderstatus.KindFile:
		files, err := readUploads(r, field)
		if err != nil {
			writeError(w, badRequest(err), http.StatusBadRequest)
			return
		}
		s.component.OnFileChange(field, files)
	case orderstatus.KindRadio:
		if err := selectStatus(s.component, r.FormValue("value")); err != nil {
			writeError(w, err, http.StatusBadRequest)
			return
		}
	default:
		s.component.OnFieldChange(field, r.FormValue("value"))
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) serveSubmit(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	s, err := h.lookup(r)
	if err != nil {
		writeError(w, err, http.StatusNotFound)
		return
	}

	if err := applyPosted(r, s.component); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}

	status := s.component.Status()
	missing := orderstatus.MissingRequired(s.data, status)
	s.setMissing(missing)
	if len(missing) > 0 {
		writeJSON(w, r, http.StatusUnprocessableEntity, submitResponse{Errors: render.RequiredErrors(missing)})
		return
	}

	payload := orderstatus.Collect(s.data, status, h.opts.SubmitPolicy)
	if h.opts.OnSubmit != nil {
		if err := h.opts.OnSubmit(r.Context(), s.id, payload); err != nil {
			h.opts.Logger.Error().Err(err).Str("session", s.id).Msg("submit order status")
			writeError(w, err, http.StatusInternalServerError)
			return
		}
	}
	h.opts.Logger.Info().Str("session", s.id).Str("status", status.String()).Int("fields", len(payload)).Msg("order status submitted")
	writeJSON(w, r, http.StatusOK, submitResponse{Data: orderstatus.PayloadDocument(payload)})
}

func (h *handler) serveOptions(w http.ResponseWriter, r *http.Request) {
	s, err := h.lookup(r)
	if err != nil {
		writeError(w, err, http.StatusNotFound)
		return
	}
	set, origin := s.component.Dropdowns()
	writeJSON(w, r, http.StatusOK, optionsResponse{
		Loading: s.component.IsLoadingDropdowns(),
		Source:  origin,
		Data:    set,
	})
}

func (h *handler) serveOpenAPI(w http.ResponseWriter, r *http.Request) {
	set := dropdowns.MustDefaultFallbacks()
	if s, ok := h.sessions.get(h.sessionID(r)); ok && !s.component.IsLoadingDropdowns() {
		if loaded, origin := s.component.Dropdowns(); origin != "" {
			set = loaded
		}
	}
	doc := orderstatus.Document(joinRoute(h.base, changeRoute), joinRoute(h.base, submitRoute), set)
	writeJSON(w, r, http.StatusOK, doc)
}

func (h *handler) renderOptions(s *session) render.RenderOptions {
	return render.RenderOptions{
		ChangeAction: joinRoute(h.base, changeRoute),
		SubmitAction: joinRoute(h.base, submitRoute),
		OptionsURL:   joinRoute(h.base, optionsRoute),
		Hidden:       render.MergeHiddenFields(nil, render.SessionField(h.opts.SessionParam, s.id)),
		Errors:       render.RequiredErrors(s.missing()),
	}
}

// sessionID reads the session from the cookie, then from the request form.
func (h *handler) sessionID(r *http.Request) string {
	if cookie, err := r.Cookie(h.opts.SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return strings.TrimSpace(r.FormValue(h.opts.SessionParam))
}

func (h *handler) lookup(r *http.Request) (*session, error) {
	id := h.sessionID(r)
	s, ok := h.sessions.get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (h *handler) parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(h.opts.MaxUploadBytes)
	} else {
		err = r.ParseForm()
	}
	if err == nil {
		return nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return StatusError{Code: http.StatusRequestEntityTooLarge, Err: err}
	}
	return badRequest(err)
}

func selectStatus(component *orderstatus.Component, raw string) error {
	status, err := orderstatus.ParseStatus(raw)
	if err != nil {
		return err
	}
	return component.SelectStatus(status)
}

// applyPosted forwards every known field present in a full form post, the
// status ahead of its section, so a submit without client script still
// reaches the owner.
func applyPosted(r *http.Request, component *orderstatus.Component) error {
	for _, field := range orderstatus.AllFields() {
		name := string(field)
		switch field.Kind() {
		case orderstatus.KindFile:
			files, err := readUploads(r, field)
			if err != nil {
				return badRequest(err)
			}
			component.OnFileChange(field, files)
		case orderstatus.KindRadio:
			if _, ok := r.PostForm[name]; !ok {
				continue
			}
			if err := selectStatus(component, r.PostForm.Get(name)); err != nil {
				return err
			}
		default:
			if _, ok := r.PostForm[name]; !ok {
				continue
			}
			component.OnFieldChange(field, r.PostForm.Get(name))
		}
	}
	return nil
}

// readUploads copies the file parts for field into memory; the request's
// temporary files are gone once the handler returns.
func readUploads(r *http.Request, field orderstatus.FieldName) ([]orderstatus.FileHandle, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	headers := r.MultipartForm.File[string(field)]
	out := make([]orderstatus.FileHandle, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("orderform: open upload %s: %w", header.Filename, err)
		}
		body, err := io.ReadAll(file)
		_ = file.Close()
		if err != nil {
			return nil, fmt.Errorf("orderform: read upload %s: %w", header.Filename, err)
		}
		out = append(out, orderstatus.FileHandle{
			Name:        header.Filename,
			Size:        header.Size,
			ContentType: header.Header.Get("Content-Type"),
			Open: func() (io.ReadCloser, error) {
				return io.NopCloser(bytes.NewReader(body)), nil
			},
		})
	}
	return out, nil
}

func allowMethods(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, method := range methods {
		if r.Method == method {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	return false
}

func writeJSON(w http.ResponseWriter, r *http.Request, code int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if r.Method == http.MethodHead {
		return
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(payload)
}

func joinRoute(base, route string) string {
	base = strings.TrimRight(base, "/")
	return base + route
}
