package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-builder/internal/ai"
	"github.com/jonathan/cv-builder/internal/payment"
	"github.com/jonathan/cv-builder/internal/server/ratelimit"
	"github.com/jonathan/cv-builder/internal/store"
	"github.com/jonathan/cv-builder/internal/types"
)

// fakeAI is a canned AiService for handler tests.
type fakeAI struct {
	enhanceOut string
	enhanceErr error
	extractDoc *types.CvDocument
	extractErr error
	summaryOut string
	summaryErr error
}

func (f *fakeAI) EnhanceDescription(_ context.Context, _, _, _ string) (string, error) {
	return f.enhanceOut, f.enhanceErr
}

func (f *fakeAI) ExtractFromText(_ context.Context, _ string) (*types.CvDocument, error) {
	return f.extractDoc, f.extractErr
}

func (f *fakeAI) GenerateSummary(_ context.Context, _ types.CvDocument) (string, error) {
	return f.summaryOut, f.summaryErr
}

// fakeCheckout drives the real store so paid state is observable through the
// session endpoints.
type fakeCheckout struct {
	store     store.Store
	createErr error
	verifyErr error
}

func (f *fakeCheckout) CreatePaymentIntent(ctx context.Context, sessionToken string) (*payment.IntentResult, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	session, err := f.store.GetSessionByToken(ctx, sessionToken)
	if err != nil {
		return nil, err
	}
	if session.IsPaid {
		return nil, payment.ErrAlreadyPaid
	}
	return &payment.IntentResult{
		PaymentIntentID: "pi_test_123",
		ClientSecret:    "pi_test_123_secret",
		AmountCents:     payment.PriceCents,
		Currency:        payment.Currency,
	}, nil
}

func (f *fakeCheckout) VerifyPayment(ctx context.Context, sessionToken, paymentIntentID string) (*types.Session, error) {
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	session, err := f.store.GetSessionByToken(ctx, sessionToken)
	if err != nil {
		return nil, err
	}
	return f.store.MarkSessionPaid(ctx, session.ID, paymentIntentID)
}

type fakeRenderer struct {
	out []byte
	err error
}

func (f *fakeRenderer) RenderPDF(_ context.Context, _ types.CvDocument) ([]byte, error) {
	return f.out, f.err
}

type testEnv struct {
	server   *Server
	store    *store.MemoryStore
	ai       *fakeAI
	checkout *fakeCheckout
	renderer *fakeRenderer
}

func newTestEnv(t *testing.T, processingDelay time.Duration) *testEnv {
	t.Helper()

	st := store.NewMemoryStore()
	fai := &fakeAI{enhanceOut: "Enhanced description.", summaryOut: "A summary."}
	fco := &fakeCheckout{store: st}
	frd := &fakeRenderer{out: []byte("%PDF-1.4\nfake\n%%EOF")}

	srv := New(Config{Port: 0, ProcessingDelay: processingDelay}, Deps{
		Store:       st,
		AI:          fai,
		Checkout:    fco,
		Renderer:    frd,
		RateLimiter: ratelimit.NewLimiter(&ratelimit.Config{Enabled: false}),
	})
	t.Cleanup(srv.scheduler.Stop)
	t.Cleanup(srv.rateLimiter.Stop)

	return &testEnv{server: srv, store: st, ai: fai, checkout: fco, renderer: frd}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(w, req)
	return w
}

func (e *testEnv) createSession(t *testing.T) types.CreateSessionResponse {
	t.Helper()

	w := e.do(t, http.MethodPost, "/api/cv-session", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var resp types.CreateSessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (e *testEnv) getSession(t *testing.T, token string) types.Session {
	t.Helper()

	w := e.do(t, http.MethodGet, "/api/cv-session/"+token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var session types.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	return session
}

func validDoc() types.CvDocument {
	return types.CvDocument{
		PersonalInfo: types.PersonalInfo{
			FullName: "Ada Lovelace",
			Title:    "Software Engineer",
			Email:    "ada@example.com",
			Phone:    "+1 555 0100",
			Location: "London",
		},
		Experiences: []types.Experience{
			{JobTitle: "Engineer", Company: "Analytical Engines", StartDate: "2020-01", IsCurrent: true, Description: "Built things."},
		},
		Education: []types.Education{
			{Institution: "University", Degree: "BSc", Field: "Mathematics", StartDate: "2016-09", EndDate: "2020-06"},
		},
		Skills: []types.Skill{
			{Name: "Go", Level: types.SkillLevelAdvanced, Category: "Languages"},
		},
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, time.Minute)

	w := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestCreateSession_Empty(t *testing.T) {
	env := newTestEnv(t, time.Minute)

	resp := env.createSession(t)
	assert.Len(t, resp.SessionToken, 64)
	assert.NotEmpty(t, resp.SessionID)

	session := env.getSession(t, resp.SessionToken)
	assert.Equal(t, "fill-form", session.CurrentStep)
	assert.Equal(t, "personal-info", session.CurrentSubStep)
	assert.False(t, session.IsPaid)
	assert.NotNil(t, session.CvData.Experiences)
	assert.Empty(t, session.CvData.Experiences)
}

func TestCreateSession_Seeded(t *testing.T) {
	env := newTestEnv(t, time.Minute)

	w := env.do(t, http.MethodPost, "/api/cv-session", map[string]any{"cvData": validDoc()})
	require.Equal(t, http.StatusCreated, w.Code)
	var resp types.CreateSessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	session := env.getSession(t, resp.SessionToken)
	assert.Equal(t, "Ada Lovelace", session.CvData.PersonalInfo.FullName)
}

func TestCreateSession_InvalidSeed(t *testing.T) {
	env := newTestEnv(t, time.Minute)

	doc := validDoc()
	doc.PersonalInfo.Email = "not-an-email"
	w := env.do(t, http.MethodPost, "/api/cv-session", map[string]any{"cvData": doc})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "personalInfo.email")
}

func TestGetSession_NotFound(t *testing.T) {
	env := newTestEnv(t, time.Minute)

	w := env.do(t, http.MethodGet, "/api/cv-session/deadbeef", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateSession(t *testing.T) {
	env := newTestEnv(t, time.Minute)
	created := env.createSession(t)

	doc := validDoc()
	w := env.do(t, http.MethodPut, "/api/cv-session/"+created.SessionToken, map[string]any{
		"cvData":         doc,
		"currentSubStep": "experience",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated types.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "experience", updated.CurrentSubStep)
	assert.Equal(t, "Ada Lovelace", updated.CvData.PersonalInfo.FullName)
	assert.Equal(t, int64(2), updated.Version)
}

func TestUpdateSession_VersionConflict(t *testing.T) {
	env := newTestEnv(t, time.Minute)
	created := env.createSession(t)

	w := env.do(t, http.MethodPut, "/api/cv-session/"+created.SessionToken, map[string]any{
		"currentSubStep": "experience",
		"version":        99,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUpdateSession_InvalidStep(t *testing.T) {
	env := newTestEnv(t, time.Minute)
	created := env.createSession(t)

	w := env.do(t, http.MethodPut, "/api/cv-session/"+created.SessionToken, map[string]any{
		"currentStep": "review",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "currentStep")
}

func TestUpdateSession_InvalidDocument(t *testing.T) {
	env := newTestEnv(t, time.Minute)
	created := env.createSession(t)

	doc := validDoc()
	doc.Skills[0].Level = "wizard"
	w := env.do(t, http.MethodPut, "/api/cv-session/"+created.SessionToken, map[string]any{"cvData": doc})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "skills[0].level")
}

func TestAdvanceWalksSubSteps(t *testing.T) {
	env := newTestEnv(t, time.Minute)
	created := env.createSession(t)
	token := created.SessionToken

	want := []struct{ step, subStep string }{
		{"fill-form", "experience"},
		{"fill-form", "education"},
		{"fill-form", "skills"},
		{"processing", "skills"},
	}
	for _, expected := range want {
		w := env.do(t, http.MethodPost, "/api/cv-session/"+token+"/advance", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var session types.Session
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
		assert.Equal(t, expected.step, session.CurrentStep)
		assert.Equal(t, expected.subStep, session.CurrentSubStep)
	}
}

func TestBackFromProcessingLandsOnSkills(t *testing.T) {
	env := newTestEnv(t, time.Minute)
	created := env.createSession(t)
	token := created.SessionToken

	step := "processing"
	w := env.do(t, http.MethodPut, "/api/cv-session/"+token, map[string]any{"currentStep": step})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/cv-session/"+token+"/back", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var session types.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	assert.Equal(t, "fill-form", session.CurrentStep)
	assert.Equal(t, "skills", session.CurrentSubStep)
}

func TestBackFromPreviewSkipsProcessing(t *testing.T) {
	env := newTestEnv(t, time.Minute)
	created := env.createSession(t)
	token := created.SessionToken

	w := env.do(t, http.MethodPut, "/api/cv-session/"+token, map[string]any{"currentStep": "preview-customize"})
	require.Equal(t, http.StatusOK, w.Code)

	// Backing out of the preview never lands on the transient processing
	// step, which would re-arm its timer and bounce the user forward again.
	w = env.do(t, http.MethodPost, "/api/cv-session/"+token+"/back", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var session types.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	assert.Equal(t, "fill-form", session.CurrentStep)
	assert.Equal(t, "skills", session.CurrentSubStep)
}

func TestBackAtStartIsNoOp(t *testing.T) {
	env := newTestEnv(t, time.Minute)
	created := env.createSession(t)

	w := env.do(t, http.MethodPost, "/api/cv-session/"+created.SessionToken+"/back", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var session types.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	assert.Equal(t, "fill-form", session.CurrentStep)
	assert.Equal(t, "personal-info", session.CurrentSubStep)
	assert.Equal(t, int64(1), session.Version)
}

func TestProcessingAutoAdvances(t *testing.T) {
	env := newTestEnv(t, 30*time.Millisecond)
	created := env.createSession(t)
	token := created.SessionToken

	w := env.do(t, http.MethodPut, "/api/cv-session/"+token, map[string]any{"currentStep": "processing"})
	require.Equal(t, http.StatusOK, w.Code)

	require.Eventually(t, func() bool {
		return env.getSession(t, token).CurrentStep == "preview-customize"
	}, 2*time.Second, 20*time.Millisecond)
}

func TestLeavingProcessingCancelsAutoAdvance(t *testing.T) {
	env := newTestEnv(t, 50*time.Millisecond)
	created := env.createSession(t)
	token := created.SessionToken

	w := env.do(t, http.MethodPut, "/api/cv-session/"+token, map[string]any{"currentStep": "processing"})
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodPost, "/api/cv-session/"+token+"/back", nil)
	require.Equal(t, http.StatusOK, w.Code)

	time.Sleep(150 * time.Millisecond)
	session := env.getSession(t, token)
	assert.Equal(t, "fill-form", session.CurrentStep)
}

func multipartUpload(t *testing.T, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "cv.dat")
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func (e *testEnv) doUpload(t *testing.T, path string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := multipartUpload(t, content)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(w, req)
	return w
}

func TestUploadJSON(t *testing.T) {
	env := newTestEnv(t, time.Minute)

	data, err := json.Marshal(validDoc())
	require.NoError(t, err)

	w := env.doUpload(t, "/api/upload-json", data)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp uploadSessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.SessionToken, 64)
	assert.Equal(t, "Ada Lovelace", resp.CvData.PersonalInfo.FullName)

	session := env.getSession(t, resp.SessionToken)
	assert.Equal(t, "Ada Lovelace", session.CvData.PersonalInfo.FullName)
}

func TestUploadJSON_SchemaViolation(t *testing.T) {
	env := newTestEnv(t, time.Minute)

	w := env.doUpload(t, "/api/upload-json", []byte(`{"personalInfo":{"fullName":"Ada"}}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadJSON_MalformedJSON(t *testing.T) {
	env := newTestEnv(t, time.Minute)

	w := env.doUpload(t, "/api/upload-json", []byte(`{"personalInfo":`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadJSON_NotMultipart(t *testing.T) {
	env := newTestEnv(t, time.Minute)

	w := env.do(t, http.MethodPost, "/api/upload-json", validDoc())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadPDF_RejectsNonPDF(t *testing.T) {
	env := newTestEnv(t, time.Minute)

	w := env.doUpload(t, "/api/upload-pdf", []byte("plain text, not a pdf"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEnhanceDescription(t *testing.T) {
	env := newTestEnv(t, time.Minute)
	env.ai.enhanceOut = "Led development of distributed systems."

	w := env.do(t, http.MethodPost, "/api/enhance-description", map[string]string{
		"description": "did coding",
		"jobTitle":    "Engineer",
		"company":     "Acme",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Led development of distributed systems.")
}

func TestEnhanceDescription_MissingField(t *testing.T) {
	env := newTestEnv(t, time.Minute)

	w := env.do(t, http.MethodPost, "/api/enhance-description", map[string]string{
		"description": "did coding",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEnhanceDescription_UpstreamFailure(t *testing.T) {
	env := newTestEnv(t, time.Minute)
	env.ai.enhanceErr = &ai.ServiceError{Op: "enhance description", Cause: context.DeadlineExceeded}

	w := env.do(t, http.MethodPost, "/api/enhance-description", map[string]string{
		"description": "did coding",
		"jobTitle":    "Engineer",
		"company":     "Acme",
	})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestGenerateSummary(t *testing.T) {
	env := newTestEnv(t, time.Minute)
	env.ai.summaryOut = "Seasoned engineer with a decade of experience."

	doc := validDoc()
	w := env.do(t, http.MethodPost, "/api/generate-summary", map[string]any{
		"personalInfo": doc.PersonalInfo,
		"experiences":  doc.Experiences,
		"skills":       doc.Skills,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Seasoned engineer")
}

func TestCreatePaymentIntent(t *testing.T) {
	env := newTestEnv(t, time.Minute)
	created := env.createSession(t)

	w := env.do(t, http.MethodPost, "/api/create-payment-intent", map[string]string{
		"sessionToken": created.SessionToken,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pi_test_123", resp["paymentIntentId"])
	assert.Equal(t, "pi_test_123_secret", resp["clientSecret"])
	assert.Equal(t, float64(999), resp["amount"])
	assert.Equal(t, "usd", resp["currency"])
}

func TestCreatePaymentIntent_UnknownSession(t *testing.T) {
	env := newTestEnv(t, time.Minute)

	w := env.do(t, http.MethodPost, "/api/create-payment-intent", map[string]string{
		"sessionToken": "deadbeef",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVerifyPayment_UnlocksSession(t *testing.T) {
	env := newTestEnv(t, time.Minute)
	created := env.createSession(t)

	w := env.do(t, http.MethodPost, "/api/verify-payment", map[string]string{
		"sessionToken":    created.SessionToken,
		"paymentIntentId": "pi_test_123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)

	session := env.getSession(t, created.SessionToken)
	assert.True(t, session.IsPaid)
}

func TestVerifyPayment_Incomplete(t *testing.T) {
	env := newTestEnv(t, time.Minute)
	created := env.createSession(t)
	env.checkout.verifyErr = payment.ErrNotCompleted

	w := env.do(t, http.MethodPost, "/api/verify-payment", map[string]string{
		"sessionToken":    created.SessionToken,
		"paymentIntentId": "pi_test_123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	session := env.getSession(t, created.SessionToken)
	assert.False(t, session.IsPaid)
}

func TestCreatePaymentIntent_AlreadyPaid(t *testing.T) {
	env := newTestEnv(t, time.Minute)
	created := env.createSession(t)

	w := env.do(t, http.MethodPost, "/api/verify-payment", map[string]string{
		"sessionToken":    created.SessionToken,
		"paymentIntentId": "pi_test_123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/create-payment-intent", map[string]string{
		"sessionToken": created.SessionToken,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already")
}

func TestGeneratePDF_RequiresPayment(t *testing.T) {
	env := newTestEnv(t, time.Minute)
	created := env.createSession(t)

	w := env.do(t, http.MethodPost, "/api/generate-pdf", map[string]string{
		"sessionToken": created.SessionToken,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGeneratePDF_AfterPayment(t *testing.T) {
	env := newTestEnv(t, time.Minute)
	created := env.createSession(t)

	w := env.do(t, http.MethodPost, "/api/verify-payment", map[string]string{
		"sessionToken":    created.SessionToken,
		"paymentIntentId": "pi_test_123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/generate-pdf", map[string]string{
		"sessionToken": created.SessionToken,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "/api/download-pdf/"+created.SessionToken, resp["downloadUrl"])

	w = env.do(t, http.MethodGet, resp["downloadUrl"].(string), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

func TestDownloadPDF(t *testing.T) {
	env := newTestEnv(t, time.Minute)
	created := env.createSession(t)

	w := env.do(t, http.MethodGet, "/api/download-pdf/"+created.SessionToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPost, "/api/verify-payment", map[string]string{
		"sessionToken":    created.SessionToken,
		"paymentIntentId": "pi_test_123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/download-pdf/"+created.SessionToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t, time.Minute)

	req := httptest.NewRequest(http.MethodOptions, "/api/cv-session", nil)
	w := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

// TestWizardEndToEnd walks the full flow: create, fill each panel, process,
// preview, pay, export.
func TestWizardEndToEnd(t *testing.T) {
	env := newTestEnv(t, 30*time.Millisecond)
	created := env.createSession(t)
	token := created.SessionToken

	// Fill each panel, advancing between them.
	doc := validDoc()
	w := env.do(t, http.MethodPut, "/api/cv-session/"+token, map[string]any{"cvData": doc})
	require.Equal(t, http.StatusOK, w.Code)

	for i := 0; i < 4; i++ {
		w = env.do(t, http.MethodPost, "/api/cv-session/"+token+"/advance", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
	session := env.getSession(t, token)
	require.Equal(t, "processing", session.CurrentStep)

	// The processing delay elapses and the wizard moves on by itself.
	require.Eventually(t, func() bool {
		return env.getSession(t, token).CurrentStep == "preview-customize"
	}, 2*time.Second, 20*time.Millisecond)

	// Export is locked until checkout completes.
	w = env.do(t, http.MethodPost, "/api/generate-pdf", map[string]string{"sessionToken": token})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPost, "/api/create-payment-intent", map[string]string{"sessionToken": token})
	require.Equal(t, http.StatusOK, w.Code)
	var intent map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &intent))

	w = env.do(t, http.MethodPost, "/api/verify-payment", map[string]string{
		"sessionToken":    token,
		"paymentIntentId": intent["paymentIntentId"].(string),
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/generate-pdf", map[string]string{"sessionToken": token})
	require.Equal(t, http.StatusOK, w.Code)
	var export map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &export))

	w = env.do(t, http.MethodGet, export["downloadUrl"].(string), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}
