package pins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModificationPoint(t *testing.T) {
	content := "نقطة التعديل #3\nالموقع: (غرفة النوم)\nالملاحظة: الرجاء تغيير الموقع"

	point := Parse(content)
	require.NotNil(t, point)
	assert.Equal(t, 3, point.PinIndex)
	assert.Equal(t, "غرفة النوم", point.Location)
	assert.Equal(t, "الرجاء تغيير الموقع", point.Note)
	assert.Equal(t, content, point.RawContent)
}

func TestParsePlainTextReturnsNil(t *testing.T) {
	assert.Nil(t, Parse("مرحبا كيف حالك"))
}

func TestParseMissingLocationReturnsNil(t *testing.T) {
	assert.Nil(t, Parse("نقطة التعديل #3\nالملاحظة: بدون موقع"))
}

func TestParseMissingIndexReturnsNil(t *testing.T) {
	assert.Nil(t, Parse("الموقع: (المطبخ)\nالملاحظة: ملاحظة"))
}

func TestParseMissingNoteUsesPlaceholder(t *testing.T) {
	point := Parse("نقطة التعديل #1\nالموقع: (المطبخ)")
	require.NotNil(t, point)
	assert.Equal(t, NoNotePlaceholder, point.Note)
}

func TestParseEmptyNoteUsesPlaceholder(t *testing.T) {
	point := Parse("نقطة التعديل #1\nالموقع: (المطبخ)\nالملاحظة:   \n")
	require.NotNil(t, point)
	assert.Equal(t, NoNotePlaceholder, point.Note)
}

func TestParseNoteStopsAtBlankLine(t *testing.T) {
	content := "نقطة التعديل #2\nالموقع: (الصالة)\nالملاحظة: تكبير النافذة\n\nنص إضافي لا يخص الملاحظة"

	point := Parse(content)
	require.NotNil(t, point)
	assert.Equal(t, "تكبير النافذة", point.Note)
}

func TestParseNoteStopsAtQuestionLine(t *testing.T) {
	content := "نقطة التعديل #2\nالموقع: (الصالة)\nالملاحظة: تكبير النافذة\nهل يمكن تنفيذ ذلك؟"

	point := Parse(content)
	require.NotNil(t, point)
	assert.Equal(t, "تكبير النافذة", point.Note)
}

func TestEncodeParseRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		index    int
		location string
		note     string
		wantNote string
	}{
		{"with note", 5, "الحمام الرئيسي", "نقل الباب", "نقل الباب"},
		{"without note", 1, "المدخل", "", NoNotePlaceholder},
		{"note with trailing whitespace", 2, "السطح", "توسيع الدرج  \n", "توسيع الدرج"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			point := Parse(Encode(tt.index, tt.location, tt.note))
			require.NotNil(t, point)
			assert.Equal(t, tt.index, point.PinIndex)
			assert.Equal(t, tt.location, point.Location)
			assert.Equal(t, tt.wantNote, point.Note)
		})
	}
}

func TestDecodePinsTolerance(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"invalid json", "not valid json{", 0},
		{"non-array payload", "{}", 0},
		{"empty string", "", 0},
		{"null", "null", 0},
		{"valid list", `[{"index":1,"location":"المطبخ","note":"ملاحظة"}]`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodePins(tt.raw)
			require.NotNil(t, got)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestEncodeDecodePinsRoundTrip(t *testing.T) {
	list := []Pin{
		{Index: 1, Location: "غرفة النوم", Note: "تغيير الموقع"},
		{Index: 2, Location: "المطبخ", Note: ""},
	}

	decoded := DecodePins(EncodePins(list))
	assert.Equal(t, list, decoded)
}

func TestEncodePinsNil(t *testing.T) {
	assert.Equal(t, "[]", EncodePins(nil))
}
