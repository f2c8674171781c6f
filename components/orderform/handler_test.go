package orderform

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-orderstatus/pkg/dropdowns"
	"github.com/goliatone/go-orderstatus/pkg/orderstatus"
	"github.com/goliatone/go-orderstatus/pkg/render"
	"github.com/goliatone/go-orderstatus/pkg/renderers/tui"
)

var sheetRows = [][]string{
	{"lead", "", "", "", "", "", "", "Accepted via", "Payment mode", "Reason", "Hold reason"},
	{"L-1", "", "", "", "", "", "", "email", "cash", "price", "budget"},
	{"L-2", "", "", "", "", "", "", "portal", "", "competitor", ""},
}

func sheetLoader(records [][]string) LoaderFunc {
	return func() *dropdowns.Loader {
		return dropdowns.New(dropdowns.WithSource(dropdowns.SourceFunc(func(context.Context) ([][]string, error) {
			return records, nil
		})))
	}
}

type changeLog struct {
	mu      sync.Mutex
	updates []orderstatus.Update
}

func (c *changeLog) record(_ string, update orderstatus.Update) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updates = append(c.updates, update)
}

func (c *changeLog) texts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.updates))
	for _, update := range c.updates {
		out = append(out, update.Field.String()+"="+update.Value.Text())
	}
	return out
}

func newTestHandler(t *testing.T, fns ...OptionFn) *handler {
	t.Helper()

	fns = append([]OptionFn{WithLoader(sheetLoader(sheetRows))}, fns...)
	h, err := newHandler("/order-status", NewOptions(fns...))
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	return h
}

func openSession(t *testing.T, h *handler) (*http.Cookie, *session) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/order-status", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == h.opts.SessionCookie {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatalf("expected session cookie")
	}
	s, ok := h.sessions.get(cookie.Value)
	if !ok {
		t.Fatalf("session %q not stored", cookie.Value)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.component.Wait(ctx); err != nil {
		t.Fatalf("wait for dropdowns: %v", err)
	}
	return cookie, s
}

func postForm(h *handler, cookie *http.Cookie, path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func getPage(t *testing.T, h *handler, cookie *http.Cookie, target string) string {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET %s: expected status 200, got %d", target, rec.Code)
	}
	return rec.Body.String()
}

func change(field, value string) url.Values {
	return url.Values{"name": {field}, "value": {value}}
}

func TestHandler_PageCreatesSessionOnce(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/order-status", nil))

	res := rec.Result()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected HTML content-type, got %q", ct)
	}
	cookies := res.Cookies()
	if len(cookies) != 1 || cookies[0].Name != "orderstatus_session" || !cookies[0].HttpOnly {
		t.Fatalf("unexpected cookies %+v", cookies)
	}

	body := rec.Body.String()
	for _, fragment := range []string{
		`<input type="hidden" name="session" value="` + cookies[0].Value + `">`,
		`action="/order-status/submit"`,
		`data-change-action="/order-status/change"`,
		`href="/order-status/assets/orderstatus.css"`,
		`name="orderStatusQuotationNumber" value="" required>`,
		`name="orderStatus"`,
	} {
		if !strings.Contains(body, fragment) {
			t.Fatalf("expected page to contain %q\n%s", fragment, body)
		}
	}

	again := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/order-status", nil)
	req.AddCookie(cookies[0])
	h.ServeHTTP(again, req)
	if len(again.Result().Cookies()) != 0 {
		t.Fatalf("existing session must not be replaced")
	}
	if got := h.sessions.len(); got != 1 {
		t.Fatalf("expected one session, got %d", got)
	}
}

func TestHandler_ChangeForwardsOneVerbatimUpdate(t *testing.T) {
	log := &changeLog{}
	h := newTestHandler(t, WithOnChange(log.record))
	cookie, s := openSession(t, h)

	rec := postForm(h, cookie, "/order-status/change", change("paymentMode", "  cash "))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}

	if diff := cmp.Diff([]string{"paymentMode=  cash "}, log.texts()); diff != "" {
		t.Fatalf("updates mismatch (-want +got):\n%s", diff)
	}
	value, ok := s.data.Get(orderstatus.FieldPaymentMode)
	if !ok || value.Text() != "  cash " {
		t.Fatalf("owner data not updated verbatim, got %q", value.Text())
	}
}

func TestHandler_StatusFlipsKeepHiddenValues(t *testing.T) {
	h := newTestHandler(t)
	cookie, s := openSession(t, h)

	steps := []url.Values{
		change("orderStatus", "yes"),
		change("paymentMode", "cash"),
		change("orderStatus", "no"),
	}
	for _, step := range steps {
		if rec := postForm(h, cookie, "/order-status/change", step); rec.Code != http.StatusNoContent {
			t.Fatalf("change %v: expected status 204, got %d", step, rec.Code)
		}
	}

	page := getPage(t, h, cookie, "/order-status")
	if !strings.Contains(page, `name="reasonStatus"`) || strings.Contains(page, `name="paymentMode"`) {
		t.Fatalf("expected lost section only\n%s", page)
	}
	if !strings.Contains(page, `<option value="competitor">competitor</option>`) {
		t.Fatalf("expected sheet options in lost section\n%s", page)
	}
	if value, ok := s.data.Get(orderstatus.FieldPaymentMode); !ok || value.Text() != "cash" {
		t.Fatalf("hidden value dropped on status flip")
	}

	if rec := postForm(h, cookie, "/order-status/change", change("orderStatus", "yes")); rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
	page = getPage(t, h, cookie, "/order-status")
	if !strings.Contains(page, `<option value="cash" selected>cash</option>`) {
		t.Fatalf("expected preserved selection after switching back\n%s", page)
	}
}

func TestHandler_ChangeRejectsBadInput(t *testing.T) {
	log := &changeLog{}
	h := newTestHandler(t, WithOnChange(log.record))
	cookie, _ := openSession(t, h)

	cases := []struct {
		name   string
		cookie *http.Cookie
		values url.Values
		code   int
	}{
		{name: "unknown field", cookie: cookie, values: change("discount", "10"), code: http.StatusBadRequest},
		{name: "invalid status", cookie: cookie, values: change("orderStatus", "maybe"), code: http.StatusBadRequest},
		{name: "unset status", cookie: cookie, values: change("orderStatus", ""), code: http.StatusBadRequest},
		{name: "no session", cookie: nil, values: change("paymentMode", "cash"), code: http.StatusNotFound},
	}
	for _, tc := range cases {
		if rec := postForm(h, tc.cookie, "/order-status/change", tc.values); rec.Code != tc.code {
			t.Fatalf("%s: expected status %d, got %d", tc.name, tc.code, rec.Code)
		}
	}
	if len(log.texts()) != 0 {
		t.Fatalf("rejected changes must not reach the owner, got %v", log.texts())
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/order-status/change", nil))
	if rec.Code != http.StatusMethodNotAllowed || rec.Header().Get("Allow") != http.MethodPost {
		t.Fatalf("expected 405 with Allow header, got %d %q", rec.Code, rec.Header().Get("Allow"))
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/order-status/unknown", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown route, got %d", rec.Code)
	}
}

func multipartChange(t *testing.T, field string, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("name", field); err != nil {
		t.Fatalf("write field: %v", err)
	}
	if filename != "" {
		part, err := writer.CreateFormFile(field, filename)
		if err != nil {
			t.Fatalf("create file part: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write file part: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestHandler_MultipartFileChange(t *testing.T) {
	log := &changeLog{}
	h := newTestHandler(t, WithOnChange(log.record))
	cookie, s := openSession(t, h)

	body, contentType := multipartChange(t, "orderVideo", "handover.mp4", []byte("frames"))
	req := httptest.NewRequest(http.MethodPost, "/order-status/change", body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}

	value, ok := s.data.Get(orderstatus.FieldOrderVideo)
	if !ok {
		t.Fatalf("expected stored file")
	}
	handle, ok := value.File()
	if !ok || handle.Name != "handover.mp4" || handle.Size != 6 {
		t.Fatalf("unexpected handle %+v", handle)
	}
	rc, err := handle.Open()
	if err != nil {
		t.Fatalf("open stored file: %v", err)
	}
	content, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(content) != "frames" {
		t.Fatalf("unexpected file content %q", content)
	}

	empty, contentType := multipartChange(t, "apologyVideo", "", nil)
	req = httptest.NewRequest(http.MethodPost, "/order-status/change", empty)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
	if _, ok := s.data.Get(orderstatus.FieldApologyVideo); ok {
		t.Fatalf("empty selection must be a no-op")
	}
	if diff := cmp.Diff([]string{"orderVideo=handover.mp4"}, log.texts()); diff != "" {
		t.Fatalf("updates mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_UploadTooLarge(t *testing.T) {
	h := newTestHandler(t, WithMaxUploadBytes(64))
	cookie, _ := openSession(t, h)

	body, contentType := multipartChange(t, "orderVideo", "big.mp4", bytes.Repeat([]byte("x"), 1024))
	req := httptest.NewRequest(http.MethodPost, "/order-status/change", body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusRequestEntityTooLarge && rec.Code != http.StatusBadRequest {
		t.Fatalf("expected oversized upload to be rejected, got %d", rec.Code)
	}
}

func TestHandler_OptionsReportsLoadingThenLists(t *testing.T) {
	release := make(chan struct{})
	h := newTestHandler(t, WithLoader(func() *dropdowns.Loader {
		return dropdowns.New(dropdowns.WithSource(dropdowns.SourceFunc(func(context.Context) ([][]string, error) {
			<-release
			return sheetRows, nil
		})))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/order-status", nil))
	cookie := rec.Result().Cookies()[0]
	if !strings.Contains(rec.Body.String(), `data-loading="true"`) {
		t.Fatalf("expected loading page\n%s", rec.Body.String())
	}

	readOptions := func() optionsResponse {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, "/order-status/options?session="+url.QueryEscape(cookie.Value), nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		var payload optionsResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("decode options: %v", err)
		}
		return payload
	}

	if payload := readOptions(); !payload.Loading {
		t.Fatalf("expected loading while the sheet is in flight")
	}

	close(release)
	s, _ := h.sessions.get(cookie.Value)
	if err := s.component.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}

	payload := readOptions()
	want := optionsResponse{
		Loading: false,
		Source:  dropdowns.OriginSheet,
		Data: dropdowns.Set{
			AcceptanceVia: []string{"email", "portal"},
			PaymentMode:   []string{"cash"},
			ReasonStatus:  []string{"price", "competitor"},
			HoldReason:    []string{"budget"},
		},
	}
	if diff := cmp.Diff(want, payload); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/order-status/options", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without session, got %d", rec.Code)
	}
}

func TestHandler_SubmitRequiresFields(t *testing.T) {
	var submitted []map[orderstatus.FieldName]orderstatus.Value
	h := newTestHandler(t, WithOnSubmit(func(_ context.Context, _ string, payload map[orderstatus.FieldName]orderstatus.Value) error {
		submitted = append(submitted, payload)
		return nil
	}))
	cookie, _ := openSession(t, h)

	rec := postForm(h, cookie, "/order-status/submit", url.Values{"orderStatus": {"hold"}, "holdRemark": {"  "}})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", rec.Code)
	}
	var failed submitResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &failed); err != nil {
		t.Fatalf("decode submit: %v", err)
	}
	wantErrors := render.RequiredErrors([]orderstatus.FieldName{
		orderstatus.FieldQuotationNumber, orderstatus.FieldHoldReason, orderstatus.FieldHoldingDate,
	})
	if diff := cmp.Diff(wantErrors, failed.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if len(submitted) != 0 {
		t.Fatalf("incomplete submission must not reach OnSubmit")
	}

	page := getPage(t, h, cookie, "/order-status")
	if strings.Count(page, render.RequiredMessage) != 3 {
		t.Fatalf("expected three required messages on the page\n%s", page)
	}

	rec = postForm(h, cookie, "/order-status/submit", url.Values{
		"orderStatusQuotationNumber": {"Q-31"},
		"holdReason":                 {"budget"},
		"holdingDate":                {"2026-11-02"},
		"holdRemark":                 {"Board meets in November"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var ok submitResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &ok); err != nil {
		t.Fatalf("decode submit: %v", err)
	}
	want := map[string]any{
		"orderStatusQuotationNumber": "Q-31",
		"orderStatus":                "hold",
		"holdReason":                 "budget",
		"holdingDate":                "2026-11-02",
		"holdRemark":                 "Board meets in November",
	}
	if diff := cmp.Diff(want, ok.Data); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
	if len(submitted) != 1 {
		t.Fatalf("expected one OnSubmit call, got %d", len(submitted))
	}
	if page := getPage(t, h, cookie, "/order-status"); strings.Contains(page, render.RequiredMessage) {
		t.Fatalf("errors must clear after a complete submission")
	}
}

func TestHandler_SubmitPolicy(t *testing.T) {
	cases := []struct {
		policy      orderstatus.SubmitPolicy
		wantPayment bool
	}{
		{policy: orderstatus.KeepHidden, wantPayment: true},
		{policy: orderstatus.DropHidden, wantPayment: false},
	}

	for _, tc := range cases {
		h := newTestHandler(t, WithSubmitPolicy(tc.policy))
		cookie, _ := openSession(t, h)

		postForm(h, cookie, "/order-status/change", change("orderStatus", "yes"))
		postForm(h, cookie, "/order-status/change", change("paymentMode", "cash"))
		rec := postForm(h, cookie, "/order-status/submit", url.Values{
			"orderStatusQuotationNumber": {"Q-12"},
			"orderStatus":                {"no"},
			"reasonStatus":               {"price"},
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d", tc.policy, rec.Code)
		}
		var payload submitResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("decode submit: %v", err)
		}
		_, hasPayment := payload.Data["paymentMode"]
		if hasPayment != tc.wantPayment {
			t.Fatalf("%s: paymentMode present=%v, want %v", tc.policy, hasPayment, tc.wantPayment)
		}
		if _, ok := payload.Data["reasonRemark"]; ok {
			t.Fatalf("%s: remark was never entered: %v", tc.policy, payload.Data)
		}
		if payload.Data["reasonStatus"] != "price" {
			t.Fatalf("%s: selected branch value missing: %v", tc.policy, payload.Data)
		}
	}
}

func TestHandler_SubmitHookError(t *testing.T) {
	h := newTestHandler(t, WithOnSubmit(func(context.Context, string, map[orderstatus.FieldName]orderstatus.Value) error {
		return StatusError{Code: http.StatusConflict, Err: errors.New("already submitted")}
	}))
	cookie, _ := openSession(t, h)

	rec := postForm(h, cookie, "/order-status/submit", url.Values{
		"orderStatusQuotationNumber": {"Q-12"},
		"orderStatus":                {"no"},
		"reasonStatus":               {"price"},
		"reasonRemark":               {"Too expensive"},
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rec.Code)
	}
}

func TestHandler_OpenAPIDocument(t *testing.T) {
	h := newTestHandler(t)
	cookie, _ := openSession(t, h)

	req := httptest.NewRequest(http.MethodGet, "/order-status/openapi.json", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var doc struct {
		OpenAPI string                    `json:"openapi"`
		Paths   map[string]map[string]any `json:"paths"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode document: %v", err)
	}
	if doc.OpenAPI != "3.0.3" {
		t.Fatalf("unexpected openapi version %q", doc.OpenAPI)
	}
	for _, path := range []string{"/order-status/change", "/order-status/submit"} {
		if _, ok := doc.Paths[path]["post"]; !ok {
			t.Fatalf("expected POST %s in document, got %v", path, doc.Paths)
		}
	}
	if !strings.Contains(rec.Body.String(), `"portal"`) {
		t.Fatalf("expected session dropdown values in enums")
	}
}

func TestHandler_AlternateFormat(t *testing.T) {
	terminal, err := tui.New(tui.WithOutputFormat(tui.OutputFormatJSON))
	if err != nil {
		t.Fatalf("tui renderer: %v", err)
	}
	registry := render.NewRegistry()
	registry.MustRegister(terminal)

	h := newTestHandler(t, WithRegistry(registry))
	cookie, _ := openSession(t, h)
	postForm(h, cookie, "/order-status/change", change("orderStatus", "no"))
	postForm(h, cookie, "/order-status/change", change("reasonRemark", "Gone"))

	req := httptest.NewRequest(http.MethodGet, "/order-status?format=tui", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"orderStatus": "no", "reasonRemark": "Gone"}, got); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}

	req = httptest.NewRequest(http.MethodGet, "/order-status?format=preact", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown format, got %d", rec.Code)
	}
}

func TestHandler_ServesAssetsAndGuard(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/order-status/assets/orderstatus.js", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "order-status-form") {
		t.Fatalf("expected script asset, got %d", rec.Code)
	}

	guarded := newTestHandler(t, WithGuard(func(*http.Request) error {
		return StatusError{Code: http.StatusUnauthorized}
	}))
	rec = httptest.NewRecorder()
	guarded.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/order-status", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 from guard, got %d", rec.Code)
	}
	if guarded.sessions.len() != 0 {
		t.Fatalf("guarded request must not create a session")
	}
}

func TestHandler_DeletedSessionIsGone(t *testing.T) {
	h := newTestHandler(t)
	cookie, _ := openSession(t, h)

	h.sessions.delete(cookie.Value)
	if rec := postForm(h, cookie, "/order-status/change", change("orderStatus", "yes")); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for evicted session, got %d", rec.Code)
	}
}
