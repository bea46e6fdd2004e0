package captures_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techforall-fr/202510-ClashReporter/internal/captures"
	"github.com/techforall-fr/202510-ClashReporter/pkg/routes"
	"github.com/techforall-fr/202510-ClashReporter/pkg/storage"
)

var png = append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, []byte("IHDR-fake-body")...)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dataURL(b []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(b)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "captures/clash_00001.png", captures.Key("clash_00001"))
}

func TestDecodeDataURL(t *testing.T) {
	got, err := captures.DecodeDataURL(dataURL(png))
	require.NoError(t, err)
	assert.Equal(t, png, got)

	got, err = captures.DecodeDataURL(base64.StdEncoding.EncodeToString(png))
	require.NoError(t, err)
	assert.Equal(t, png, got)

	_, err = captures.DecodeDataURL("data:image/png;base64,!!!")
	assert.ErrorIs(t, err, captures.ErrInvalid)

	_, err = captures.DecodeDataURL(dataURL([]byte("GIF89a")))
	assert.ErrorIs(t, err, captures.ErrInvalid)
}

func TestSaveAndOpen(t *testing.T) {
	store := storage.NewMemory()
	sys := captures.New(store, 0, discard())
	ctx := context.Background()

	c, err := sys.Save(ctx, captures.SaveCommand{ClashID: "clash_00003", ImageDataURL: dataURL(png)})
	require.NoError(t, err)
	assert.Equal(t, "captures/clash_00003.png", c.Key)
	assert.Equal(t, int64(len(png)), c.Size)

	rc, found, err := sys.Open(ctx, "clash_00003")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, png, data)
	assert.Equal(t, captures.ContentType, found.ContentType)
}

func TestSaveValidation(t *testing.T) {
	sys := captures.New(storage.NewMemory(), 8, discard())
	ctx := context.Background()

	tests := []struct {
		name string
		cmd  captures.SaveCommand
		err  error
	}{
		{name: "missing clash", cmd: captures.SaveCommand{ImageDataURL: dataURL(png)}, err: captures.ErrInvalid},
		{name: "path in clash id", cmd: captures.SaveCommand{ClashID: "a/b", ImageDataURL: dataURL(png)}, err: captures.ErrInvalid},
		{name: "dot segment", cmd: captures.SaveCommand{ClashID: "..", ImageDataURL: dataURL(png)}, err: captures.ErrInvalid},
		{name: "too large", cmd: captures.SaveCommand{ClashID: "c1", ImageDataURL: dataURL(png)}, err: captures.ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sys.Save(ctx, tt.cmd)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestDisabled(t *testing.T) {
	sys := captures.New(nil, 0, discard())
	ctx := context.Background()

	_, err := sys.Save(ctx, captures.SaveCommand{ClashID: "c1", ImageDataURL: dataURL(png)})
	assert.ErrorIs(t, err, captures.ErrUnavailable)

	_, err = sys.Find(ctx, "c1")
	assert.ErrorIs(t, err, captures.ErrUnavailable)
	assert.Equal(t, http.StatusServiceUnavailable, captures.MapHTTPStatus(err))
}

func TestHandler(t *testing.T) {
	mux := http.NewServeMux()
	routes.Register(mux, captures.New(storage.NewMemory(), 0, discard()).Handler().Routes())

	body := `{"clash_id":"clash_00009","image_data_url":"` + dataURL(png) + `"}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/captures", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var c captures.Capture
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&c))
	assert.Equal(t, "clash_00009", c.ClashID)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/captures/clash_00009", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, captures.ContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, png, rec.Body.Bytes())

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/captures/clash_00009/info", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/captures/clash_00009", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/captures/clash_00009", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerDisabled(t *testing.T) {
	mux := http.NewServeMux()
	routes.Register(mux, captures.New(nil, 0, discard()).Handler().Routes())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/captures/clash_00001", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
