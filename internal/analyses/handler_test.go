package analyses

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance-agent/internal/shared/server/middleware"
)

const farmerLoanText = "I am a small farmer in Punjab. I took a loan of 2 lakh rupees from the cooperative bank on my Kisan Credit Card at 7% interest. I also heard about PM-KISAN. Should I repay the loan early?"

func setupRouter(gen *stubGenerator, maxUpload int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestID())
	NewHandler(newTestService(gen), maxUpload).RegisterRoutes(router)
	return router
}

func postJSON(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func decodeDetail(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body, 1, "expected only detail in %v", body)
	detail, ok := body["detail"].(string)
	require.True(t, ok, "detail missing in %v", body)
	return detail
}

func TestAnalyzeFarmerLoanScenario(t *testing.T) {
	fixture := loadFixture(t, "testdata/farmer_loan_response.json")
	gen := &stubGenerator{response: string(fixture)}
	router := setupRouter(gen, 0)

	payload, err := json.Marshal(map[string]string{"unstructured_text": farmerLoanText})
	require.NoError(t, err)
	resp := postJSON(t, router, string(payload))

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.JSONEq(t, string(fixture), resp.Body.String())

	prompt := gen.lastPrompt(t)
	assert.Contains(t, prompt, "'rural loans and government schemes in India'")
	assert.Contains(t, prompt, "---\n"+farmerLoanText+"\n---")
	assert.Contains(t, prompt, `"potential_risks"`)
}

func TestAnalyzeHandlerSuppliedContext(t *testing.T) {
	gen := &stubGenerator{response: `{"summary":"ok"}`}
	router := setupRouter(gen, 0)

	resp := postJSON(t, router, `{"unstructured_text":"SHG loan","context":"self-help groups in Odisha"}`)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"summary":"ok"}`, resp.Body.String())
	assert.Contains(t, gen.lastPrompt(t), "'self-help groups in Odisha'")
}

func TestAnalyzeHandlerWritesModelJSONVerbatim(t *testing.T) {
	gen := &stubGenerator{response: `{"summary":"<b>&","a":1,"rate":7.10}`}
	router := setupRouter(gen, 0)

	resp := postJSON(t, router, `{"unstructured_text":"loan"}`)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, `{"summary":"<b>&","a":1,"rate":7.10}`, resp.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", resp.Header().Get("Content-Type"))
}

func TestAnalyzeHandlerEmptyTextAccepted(t *testing.T) {
	gen := &stubGenerator{response: `{}`}
	router := setupRouter(gen, 0)

	resp := postJSON(t, router, `{"unstructured_text":""}`)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 1, gen.calls())
}

func TestAnalyzeHandlerNonJSONOutput(t *testing.T) {
	gen := &stubGenerator{response: string(loadFixture(t, "testdata/non_json_output.txt"))}
	router := setupRouter(gen, 0)

	resp := postJSON(t, router, `{"unstructured_text":"loan"}`)

	require.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.True(t, strings.HasPrefix(decodeDetail(t, resp), "An internal error occurred: "))
}

func TestAnalyzeHandlerProviderError(t *testing.T) {
	gen := &stubGenerator{err: assert.AnError}
	router := setupRouter(gen, 0)

	resp := postJSON(t, router, `{"unstructured_text":"loan"}`)

	require.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Equal(t, "An internal error occurred: "+assert.AnError.Error(), decodeDetail(t, resp))
}

func TestAnalyzeHandlerValidation(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantDetail string
	}{
		{name: "missing text", body: `{"context":"x"}`, wantDetail: "unstructured_text"},
		{name: "null text", body: `{"unstructured_text":null}`, wantDetail: "unstructured_text"},
		{name: "wrong type", body: `{"unstructured_text":42}`, wantDetail: "invalid type for unstructured_text"},
		{name: "null context", body: `{"unstructured_text":"x","context":null}`, wantDetail: "context must be a string"},
		{name: "non-string context", body: `{"unstructured_text":"x","context":7}`, wantDetail: "invalid type for context: expected string"},
		{name: "malformed", body: `{"unstructured_text":`, wantDetail: "invalid JSON body"},
		{name: "empty body", body: ``, wantDetail: "request body is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &stubGenerator{response: `{}`}
			router := setupRouter(gen, 0)

			resp := postJSON(t, router, tt.body)

			require.Equal(t, http.StatusUnprocessableEntity, resp.Code, resp.Body.String())
			assert.Contains(t, decodeDetail(t, resp), tt.wantDetail)
			assert.Zero(t, gen.calls())
		})
	}
}

func multipartRequest(t *testing.T, fileName string, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if fileName != "" {
		fw, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/analyze/document", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestAnalyzeDocumentPlainText(t *testing.T) {
	gen := &stubGenerator{response: `{"summary":"doc"}`}
	router := setupRouter(gen, 0)

	req := multipartRequest(t, "statement.txt", []byte(farmerLoanText), map[string]string{"context": "crop insurance"})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.JSONEq(t, `{"summary":"doc"}`, resp.Body.String())
	prompt := gen.lastPrompt(t)
	assert.Contains(t, prompt, "'crop insurance'")
	assert.Contains(t, prompt, farmerLoanText)
}

func TestAnalyzeDocumentDefaultContext(t *testing.T) {
	gen := &stubGenerator{response: `{}`}
	router := setupRouter(gen, 0)

	req := multipartRequest(t, "note.txt", []byte("MUDRA loan"), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, gen.lastPrompt(t), "'rural loans and government schemes in India'")
}

func TestAnalyzeDocumentRejections(t *testing.T) {
	tests := []struct {
		name       string
		fileName   string
		content    []byte
		maxUpload  int64
		wantStatus int
	}{
		{name: "missing file", wantStatus: http.StatusUnprocessableEntity},
		{name: "unsupported type", fileName: "scan.png", content: []byte{0x89, 'P', 'N', 'G'}, wantStatus: http.StatusUnprocessableEntity},
		{name: "blank text", fileName: "blank.txt", content: []byte("  \n "), wantStatus: http.StatusUnprocessableEntity},
		{name: "too large", fileName: "big.txt", content: bytes.Repeat([]byte("a"), 4096), maxUpload: 256, wantStatus: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &stubGenerator{response: `{}`}
			router := setupRouter(gen, tt.maxUpload)

			req := multipartRequest(t, tt.fileName, tt.content, map[string]string{"context": "x"})
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			require.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
			assert.NotEmpty(t, decodeDetail(t, resp))
			assert.Zero(t, gen.calls())
		})
	}
}

func TestAnalyzeDocumentProviderError(t *testing.T) {
	gen := &stubGenerator{err: assert.AnError}
	router := setupRouter(gen, 0)

	req := multipartRequest(t, "note.txt", []byte("loan"), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Equal(t, "An internal error occurred: "+assert.AnError.Error(), decodeDetail(t, resp))
}
