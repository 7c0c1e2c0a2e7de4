package riconciliazione

import (
	"testing"
	"time"

	"github.com/MWSGestioneLead/api-lead/internal/lead"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeseAttribuzione(t *testing.T) {
	l := &lead.Lead{
		CreatedAt: time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC),
	}
	adesso := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	mese, err := MeseAttribuzione(l, AttribuzioneCreazione, adesso)
	require.NoError(t, err)
	assert.Equal(t, "2025-03", mese)

	mese, err = MeseAttribuzione(l, AttribuzioneCorrente, adesso)
	require.NoError(t, err)
	assert.Equal(t, "2025-06", mese)

	_, err = MeseAttribuzione(l, "ultimo-contatto", adesso)
	assert.Error(t, err)
}
