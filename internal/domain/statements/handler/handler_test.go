package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborbooks/statement-ingest/internal/domain/statements/service"
	"github.com/harborbooks/statement-ingest/internal/ingest/pipeline"
)

const sampleCSV = "Date,Description,Amount\n" +
	"2024-01-15,Coffee shop,-4.50\n" +
	"2024-01-16,Salary,2500.00\n"

func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	svc := service.New(pipeline.New(nil, nil), nil, nil, nil)
	app := fiber.New()
	New(svc, nil).Register(app)
	return app
}

func multipartBody(t *testing.T, filename, content string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestHealthz(t *testing.T) {
	app := setupApp(t)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestIngestReturnsTransactions(t *testing.T) {
	app := setupApp(t)

	body, contentType := multipartBody(t, "jan.csv", sampleCSV, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/statements/ingest", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result service.IngestResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Len(t, result.Transactions, 2)
	assert.Equal(t, pipeline.SourceLocal, result.Source)
	assert.NotEmpty(t, result.BatchID)
}

func TestIngestCSVResponseMode(t *testing.T) {
	app := setupApp(t)

	body, contentType := multipartBody(t, "jan.csv", sampleCSV, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/statements/ingest", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "text/csv")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.NotEmpty(t, resp.Header.Get("X-Batch-ID"))

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "date,description,amount,direction", lines[0])
}

func TestIngestMissingFile(t *testing.T) {
	app := setupApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/statements/ingest", strings.NewReader(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=----x")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestIngestErrorMapping(t *testing.T) {
	app := setupApp(t)

	t.Run("unidentifiable columns", func(t *testing.T) {
		body, contentType := multipartBody(t, "junk.csv", "alpha,beta\ngamma,delta\nepsilon,zeta\n", nil)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/statements/ingest", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

		var payload map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
		assert.Contains(t, payload["error"], "date, description, and amount")
	})

	t.Run("unsupported format", func(t *testing.T) {
		body, contentType := multipartBody(t, "photo.bin", "\x00\x01\x02\x03", nil)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/statements/ingest", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnsupportedMediaType, resp.StatusCode)
	})

	t.Run("bad user id", func(t *testing.T) {
		body, contentType := multipartBody(t, "jan.csv", sampleCSV, map[string]string{"user_id": "not-a-uuid"})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/statements/ingest", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}
