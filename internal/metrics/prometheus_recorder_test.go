package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("mods", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncStageResult("mods", ResultSuccess)
	pr.IncBuildOutcome(ResultSuccess)
	pr.IncModResult(ResultSuccess)
	pr.IncModResult(ResultFailed)
	pr.IncImageResult("preview", ResultSuccess)
	pr.IncFileWritten("page", 1024)
	pr.SetModCount(3)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)

	assert.InDelta(t, 1, testutil.ToFloat64(pr.modResults.WithLabelValues("failed")), 0)
	assert.InDelta(t, 1024, testutil.ToFloat64(pr.bytesWritten.WithLabelValues("page")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(pr.modCount), 0)
}

func TestWriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncImageResult("banner", ResultSkipped)

	path := filepath.Join(t.TempDir(), "nextmod.prom")
	require.NoError(t, pr.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `nextmod_images_total{kind="banner",result="skipped"} 1`)
}
