package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fadilmartias/jobapply/internal/config"
	"github.com/fadilmartias/jobapply/internal/form"
	"github.com/fadilmartias/jobapply/internal/repository"
	"github.com/fadilmartias/jobapply/internal/service"
	"github.com/fadilmartias/jobapply/internal/usecase"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

var fixedNow = time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

type endpoint struct {
	srv    *httptest.Server
	calls  int32
	status int32
	last   atomic.Value // url.Values of the last multipart post
}

func newEndpoint(t *testing.T) *endpoint {
	e := &endpoint{status: http.StatusOK}
	e.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&e.calls, 1)
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			e.last.Store(r.MultipartForm.Value)
		}
		w.WriteHeader(int(atomic.LoadInt32(&e.status)))
		_, _ = w.Write([]byte(`{"id":"APP-9"}`))
	}))
	t.Cleanup(e.srv.Close)
	return e
}

func (e *endpoint) lastForm() map[string][]string {
	v, _ := e.last.Load().(map[string][]string)
	return v
}

func newTestApp(t *testing.T, e *endpoint) *fiber.App {
	t.Helper()
	repo := repository.NewMemoryDraftRepository(time.Hour)
	flow := form.NewFlow(form.NewSchema(func() time.Time { return fixedNow }))
	docs := service.NewDocumentServiceWithPageCounter(func([]byte) (int, error) { return 1, nil })
	sub := service.NewSubmissionService(&config.SubmissionConfig{
		BaseURL: e.srv.URL,
		Path:    "/submit",
		Mode:    config.SubmissionModeMultipart,
		Timeout: 5 * time.Second,
	})
	uc := usecase.NewApplicationUsecase(repo, flow, docs, sub)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	NewPageHandler("").RegisterRoutes(app)
	NewApplicationHandler(uc).RegisterRoutes(app)
	return app
}

func call(t *testing.T, app *fiber.App, method, path string, body any) (int, gjson.Result) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return send(t, app, req)
}

func upload(t *testing.T, app *fiber.App, path, filename string, data []byte) (int, gjson.Result) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPut, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return send(t, app, req)
}

func send(t *testing.T, app *fiber.App, req *http.Request) (int, gjson.Result) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, gjson.ParseBytes(b)
}

func fields(kv map[string]any) map[string]any {
	return map[string]any{"fields": kv}
}

var (
	personalFields = map[string]any{
		"firstName":       "Asha",
		"lastName":        "Verma",
		"dateOfBirth":     "1994-06-21",
		"gender":          "Female",
		"birthPlace":      "Pune",
		"maritalStatus":   "Single",
		"currentSalary":   12,
		"expectedSalary":  18.5,
		"email":           "asha.verma@example.com",
		"phone":           "9876543210",
		"skype":           "asha.verma",
		"linkedIn":        "https://in.linkedin.com/in/ashaverma",
		"address.country": "USA",
		"address.state":   "Texas",
		"address.city":    "Dallas",
	}
	referralFields = map[string]any{
		"referredBy":       []string{"Facebook", "Other"},
		"jobRole":          "Manager",
		"coverLetter":      "Ten years of shipping products.",
		"relationship":     "Colleague",
		"referenceName":    "Ravi Kumar",
		"referenceDob":     "1980-01-15",
		"referenceJob":     "Director",
		"referenceAddress": "4 Park Road, Pune",
		"referencePhone":   "9123456780",
	}
	careerFields = map[string]any{
		"workDetails[0].workFromDate":            "2018-07-01",
		"workDetails[0].workToDate":              "2023-12-31",
		"workDetails[0].workCompany":             "Acme Corp",
		"workDetails[0].workPosition":            "Product Manager",
		"workDetails[0].workContactPerson":       "Ravi Kumar",
		"workDetails[0].workSalary":              "30",
		"workDetails[0].workReasonLeaving":       "Growth",
		"workDetails[0].workJobDescription":      "Owned the payments roadmap.",
		"educationalDetails[0].eduFromDate":      "2012-07-01",
		"educationalDetails[0].eduToDate":        "2016-05-31",
		"educationalDetails[0].eduCourse":        "MBA",
		"educationalDetails[0].eduTrainingPlace": "IIM",
		"educationalDetails[0].eduSpecialized":   "Operations",
		"educationalDetails[0].eduPercentage":    "81",
	}
)

func TestApplicationHandler_EndToEnd(t *testing.T) {
	e := newEndpoint(t)
	app := newTestApp(t, e)

	status, body := call(t, app, http.MethodPost, "/applications", nil)
	require.Equal(t, http.StatusCreated, status)
	id := body.Get("data.id").String()
	require.NotEmpty(t, id)
	assert.Equal(t, "personal", body.Get("navigation.step_name").String())
	assert.Equal(t, int64(1), body.Get("data.values.workDetails.#").Int())
	base := "/applications/" + id

	status, body = call(t, app, http.MethodPost, base+"/next", nil)
	require.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "First Name is required", body.Get("details.firstName").String())

	status, _ = call(t, app, http.MethodPatch, base, fields(personalFields))
	require.Equal(t, http.StatusOK, status)
	status, body = upload(t, app, base+"/documents/cv", "asha-cv.pdf", pdfBytes)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/pdf", body.Get("data.documents.cv.content_type").String())
	assert.False(t, body.Get("data.values.cv").Exists())

	status, body = call(t, app, http.MethodPost, base+"/next", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "referral", body.Get("navigation.step_name").String())

	status, body = call(t, app, http.MethodPost, base+"/next", nil)
	require.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "At least one referral method is required", body.Get("details.referredBy").String())

	status, _ = call(t, app, http.MethodPatch, base, fields(referralFields))
	require.Equal(t, http.StatusOK, status)
	status, _ = call(t, app, http.MethodPost, base+"/next", nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = call(t, app, http.MethodPatch, base, fields(careerFields))
	require.Equal(t, http.StatusOK, status)

	status, body = call(t, app, http.MethodPost, base+"/submit", nil)
	require.Equal(t, http.StatusOK, status, body.Raw)
	assert.Equal(t, "/thankyou", body.Get("data.redirect").String())
	assert.Equal(t, "APP-9", body.Get("data.reference").String())

	assert.EqualValues(t, 1, atomic.LoadInt32(&e.calls))
	sent := e.lastForm()
	assert.Equal(t, []string{"Asha"}, sent["firstName"])
	assert.Equal(t, []string{"Dallas"}, sent["city"])
	assert.Equal(t, []string{"Manager"}, sent["jobRole"])
	assert.JSONEq(t, `["Facebook","Other"]`, sent["referredBy"][0])
	assert.Contains(t, sent["workDetails"][0], "Acme Corp")

	status, _ = call(t, app, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, body = call(t, app, http.MethodGet, "/thankyou", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Thank You!", body.Get("data.title").String())
}

func TestApplicationHandler_SubmitFailure(t *testing.T) {
	e := newEndpoint(t)
	atomic.StoreInt32(&e.status, http.StatusInternalServerError)
	app := newTestApp(t, e)

	_, body := call(t, app, http.MethodPost, "/applications", nil)
	base := "/applications/" + body.Get("data.id").String()
	for _, step := range []map[string]any{personalFields, referralFields} {
		status, _ := call(t, app, http.MethodPatch, base, fields(step))
		require.Equal(t, http.StatusOK, status)
		status, _ = call(t, app, http.MethodPost, base+"/next", nil)
		require.Equal(t, http.StatusOK, status)
	}
	status, _ := call(t, app, http.MethodPatch, base, fields(careerFields))
	require.Equal(t, http.StatusOK, status)

	status, body = call(t, app, http.MethodPost, base+"/submit", nil)
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, usecase.SubmitFailedMessage, body.Get("message").String())

	status, body = call(t, app, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "career", body.Get("data.step_name").String())
	assert.Equal(t, "Acme Corp", body.Get("data.values.workDetails.0.workCompany").String())
}

func TestApplicationHandler_FieldAndListErrors(t *testing.T) {
	app := newTestApp(t, newEndpoint(t))
	_, body := call(t, app, http.MethodPost, "/applications", nil)
	base := "/applications/" + body.Get("data.id").String()

	status, body := call(t, app, http.MethodPatch, base, fields(map[string]any{"phone": "12345"}))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Phone number must be exactly 10 digits", body.Get("data.errors.phone").String())
	assert.False(t, body.Get("data.errors.firstName").Exists(), "untouched fields show no error")

	status, _ = call(t, app, http.MethodPatch, base, fields(map[string]any{"nickname": "x"}))
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = call(t, app, http.MethodPatch, base, fields(map[string]any{}))
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, app, http.MethodDelete, base+"/work-details/0", nil)
	assert.Equal(t, http.StatusConflict, status)
	status, body = call(t, app, http.MethodPost, base+"/work-details", nil)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, int64(2), body.Get("data.values.workDetails.#").Int())
	status, _ = call(t, app, http.MethodDelete, base+"/work-details/7", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	status, body = call(t, app, http.MethodDelete, base+"/work-details/1", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(1), body.Get("data.values.workDetails.#").Int())

	status, _ = call(t, app, http.MethodPost, base+"/back", nil)
	assert.Equal(t, http.StatusConflict, status)
	status, _ = call(t, app, http.MethodPost, base+"/submit", nil)
	assert.Equal(t, http.StatusConflict, status)
}

func TestApplicationHandler_Documents(t *testing.T) {
	app := newTestApp(t, newEndpoint(t))
	_, body := call(t, app, http.MethodPost, "/applications", nil)
	base := "/applications/" + body.Get("data.id").String()

	status, body := upload(t, app, base+"/documents/profilePic", "me.pdf", pdfBytes)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "Unsupported format. Upload an image file (JPG, PNG).", body.Get("details.profilePic").String())

	status, body = upload(t, app, base+"/documents/cv", "cv.pdf", append(append([]byte{}, pdfBytes...), make([]byte, 1<<20)...))
	assert.Equal(t, http.StatusRequestEntityTooLarge, status)
	assert.Equal(t, "File size should be less than 1MB", body.Get("details.cv").String())

	status, _ = upload(t, app, base+"/documents/passport", "p.pdf", pdfBytes)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = upload(t, app, base+"/documents/cv", "cv.pdf", pdfBytes)
	require.Equal(t, http.StatusOK, status)
	status, body = call(t, app, http.MethodDelete, base+"/documents/cv", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, gjson.Null, body.Get("data.documents.cv").Type)
}

func TestApplicationHandler_UnknownDraft(t *testing.T) {
	app := newTestApp(t, newEndpoint(t))

	status, _ := call(t, app, http.MethodGet, "/applications/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body := call(t, app, http.MethodGet, "/applications/7b0c4a4e-5d43-4a3b-9d8e-2f8f1f4f3e11", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, body.Get("success").Bool())

	status, _ = call(t, app, http.MethodDelete, "/applications/7b0c4a4e-5d43-4a3b-9d8e-2f8f1f4f3e11", nil)
	assert.Equal(t, http.StatusNotFound, status)
}
