package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordSkipped(t *testing.T) {
	before := testutil.ToFloat64(filesSkippedTotal.WithLabelValues("existing"))
	RecordSkipped("existing", 3)
	RecordSkipped("existing", 0)
	after := testutil.ToFloat64(filesSkippedTotal.WithLabelValues("existing"))
	assert.Equal(t, 3.0, after-before)
}

func TestRecordStoreWrite(t *testing.T) {
	okBefore := testutil.ToFloat64(storeWritesTotal.WithLabelValues("memory", "ok"))
	errBefore := testutil.ToFloat64(storeWritesTotal.WithLabelValues("memory", "error"))
	bytesBefore := testutil.ToFloat64(bytesWritten)

	RecordStoreWrite("memory", 200, nil)
	RecordStoreWrite("memory", 500, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(storeWritesTotal.WithLabelValues("memory", "ok"))-okBefore)
	assert.Equal(t, 1.0, testutil.ToFloat64(storeWritesTotal.WithLabelValues("memory", "error"))-errBefore)
	assert.Equal(t, 200.0, testutil.ToFloat64(bytesWritten)-bytesBefore, "failed writes do not count bytes")
}

func TestHandler_ExposesMetrics(t *testing.T) {
	RecordOperation("get_files", 10*time.Millisecond, nil)
	RecordWarning("warning_1mb")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "themestore_operation_duration_seconds"))
	assert.True(t, strings.Contains(body, `themestore_file_warnings_total{reason="warning_1mb"}`))
}
