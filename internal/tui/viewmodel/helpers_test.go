package viewmodel

import (
	"testing"

	"github.com/Veraticus/customs/internal/tradezone"
	"github.com/stretchr/testify/assert"
)

func TestFieldID_Navigation(t *testing.T) {
	assert.Equal(t, FieldPrice, FieldCode.Next())
	assert.Equal(t, FieldCode, FieldSubmit.Next())
	assert.Equal(t, FieldSubmit, FieldCode.Prev())
	assert.Equal(t, "TN VED kodi", FieldCode.Label())
	assert.Equal(t, "Field(99)", FieldID(99).Label())
}

func TestNewAdviceView(t *testing.T) {
	v := NewAdviceView(tradezone.Classify("kz"))
	assert.Equal(t, ToneSuccess, v.Tone)
	assert.True(t, v.ShowCertificate)
	assert.Equal(t, tradezone.MessageFreeTrade, v.Message)

	v = NewAdviceView(tradezone.Classify("XX"))
	assert.Equal(t, ToneWarning, v.Tone)
	assert.False(t, v.ShowCertificate)

	v = NewAdviceView(tradezone.Classify("CN"))
	assert.Empty(t, v.Message)
}

func TestAppView(t *testing.T) {
	av := AppView{State: StateCalculating}
	assert.True(t, av.IsBusy())
	assert.False(t, av.HasResult())

	av = AppView{State: StateResult, Breakdown: &BreakdownView{}}
	assert.True(t, av.HasResult())
	assert.Equal(t, "Result", av.State.String())

	assert.Equal(t, "1 USD = 12 650,5 so'm", HeaderRate("12 650,5"))
	assert.Empty(t, HeaderRate(""))
}
