package controllers

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"codechat/config"
	"codechat/internal/ollama"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Defaults()
	cfg.Env = "test"
	cfg.UploadDir = t.TempDir()
	return cfg
}

// fakeOllama is a stand-in upstream that records every prompt it receives.
type fakeOllama struct {
	server   *httptest.Server
	prompts  []string
	response string
	failWith int
}

func newFakeOllama(t *testing.T) *fakeOllama {
	t.Helper()
	f := &fakeOllama{response: "model answer"}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/generate":
			var req ollama.GenerateRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			f.prompts = append(f.prompts, req.Prompt)
			if f.failWith != 0 {
				w.WriteHeader(f.failWith)
				json.NewEncoder(w).Encode(map[string]string{"error": "upstream exploded"})
				return
			}
			json.NewEncoder(w).Encode(ollama.GenerateResponse{
				Model:    req.Model,
				Response: f.response,
				Done:     true,
			})
		case "/api/tags":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"models": []map[string]interface{}{
					{"name": "phi3:mini", "size": 2300000000},
					{"name": "llama3:8b", "size": 4700000000},
				},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeOllama) client() *ollama.Client {
	return ollama.NewClient(f.server.URL, "phi3:mini", 5*time.Second)
}

// zipUpload builds a multipart request body carrying a zip archive built from
// the given relative path -> content map, under the form field "project".
func zipUpload(t *testing.T, filename string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var zipBuf bytes.Buffer
	zw := zip.NewWriter(&zipBuf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("project", filename)
	require.NoError(t, err)
	_, err = fw.Write(zipBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &body, mw.FormDataContentType()
}

// doJSON runs a handler against a JSON request and decodes the JSON response.
func doJSON(t *testing.T, handler echo.HandlerFunc, method, target string, payload interface{}, setup func(echo.Context)) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	if setup != nil {
		setup(c)
	}

	require.NoError(t, handler(c))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	return rec, decoded
}
