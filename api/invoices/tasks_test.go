package invoices

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EnerTrack/api/registry"
)

func TestTaskRunner(t *testing.T) {
	runner := NewTaskRunner()
	store := NewMemStore()
	imp := &Importer{Registry: seededRegistry(t), Store: store}

	id := runner.Submit(imp, []byte(facturesCSV), "factures_jan.csv")
	require.NotEmpty(t, id)

	require.Eventually(t, func() bool {
		st, ok := runner.Status(id)
		return ok && st.Status != TaskPending
	}, 5*time.Second, 10*time.Millisecond)

	st, ok := runner.Status(id)
	require.True(t, ok)
	assert.Equal(t, TaskSuccess, st.Status)
	require.NotNil(t, st.Result)
	assert.Equal(t, 2, st.Result.Created)
}

func TestTaskRunnerFailure(t *testing.T) {
	runner := NewTaskRunner()
	imp := &Importer{Registry: registry.NewMemStore(), Store: NewMemStore()}

	// Missing required columns makes the whole import fail.
	id := runner.Submit(imp, []byte("foo;bar\n1;2\n"), "junk.csv")

	require.Eventually(t, func() bool {
		st, ok := runner.Status(id)
		return ok && st.Status == TaskFailure
	}, 5*time.Second, 10*time.Millisecond)

	st, _ := runner.Status(id)
	assert.NotEmpty(t, st.Error)
}

func TestTaskRunnerUnknownID(t *testing.T) {
	runner := NewTaskRunner()
	_, ok := runner.Status("nope")
	assert.False(t, ok)
}
