package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorsRegistered(t *testing.T) {
	m := New()
	m.Submissions.WithLabelValues("recorded").Inc()
	m.Submissions.WithLabelValues("recorded").Inc()
	m.Tiers.WithLabelValues("HIGH").Inc()
	m.StoredRecords.Set(4)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Submissions.WithLabelValues("recorded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Tiers.WithLabelValues("HIGH")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.StoredRecords))
}

func TestSeparateRegistries(t *testing.T) {
	// Two instances must not collide on registration.
	a, b := New(), New()
	a.Submissions.WithLabelValues("recorded").Inc()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Submissions.WithLabelValues("recorded")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.StoredRecords.Set(2)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "strokerisk_stored_records 2"))
}
