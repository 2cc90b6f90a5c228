package identifiers

import (
	"strings"
	"testing"

	"github.com/shishobooks/bookbuddy/pkg/errcodes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		kind     Kind
		expected string
		number   int64
	}{
		{"isbn10", "0316769487", KindISBN10, "0316769487", 316769487},
		{"isbn10 with X", "123456789X", KindISBN10, "123456789X", 1234567900},
		{"isbn10 lowercase x", "080442957x", KindISBN10, "080442957X", 804429580},
		{"isbn10 hyphens", "0-316-76948-7", KindISBN10, "0316769487", 316769487},
		{"isbn13", "9780316769488", KindISBN13, "9780316769488", 9780316769488},
		{"isbn13 hyphens", "978-0-316-76948-8", KindISBN13, "9780316769488", 9780316769488},
		{"isbn13 prefix", "ISBN: 978-0-316-76948-8", KindISBN13, "9780316769488", 9780316769488},
		{"isbn13 urn", "urn:isbn:9780316769488", KindISBN13, "9780316769488", 9780316769488},
		{"isbn13 label", "ISBN-13: 9780316769488", KindISBN13, "9780316769488", 9780316769488},
		{"isbn13 label no hyphen", "isbn13 978-0-316-76948-8", KindISBN13, "9780316769488", 9780316769488},
		{"isbn10 label", "ISBN-10: 0316769487", KindISBN10, "0316769487", 316769487},
		{"isbn10 label without colon", "ISBN-10 0-316-76948-7", KindISBN10, "0316769487", 316769487},
		{"isbn10 starting with 10", "ISBN 1034567890", KindISBN10, "1034567890", 1034567890},
		{"isbn10 qualifier", "0316769487 (pbk.)", KindISBN10, "0316769487", 316769487},
		{"isbn13 qualifier", "ISBN 978-0-316-76948-8 [hardcover]", KindISBN13, "9780316769488", 9780316769488},
		{"too short", "123456789", KindUnrecognized, "", 0},
		{"between lengths", "12345678901", KindUnrecognized, "", 0},
		{"too long", "97803167694881", KindUnrecognized, "", 0},
		{"empty", "", KindUnrecognized, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := Classify(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, id.Kind)
			assert.Equal(t, tt.expected, id.Value)
			assert.Equal(t, tt.number, id.Number)
		})
	}
}

func TestClassify_Malformed(t *testing.T) {
	tests := []string{
		"12345X7890",    // X not in the check position
		"ABCDEFGHIJ",    // ten letters
		"978031676948A", // thirteen characters, not numeric
		"X234567890",
		"031676948é",    // ten characters, one of them not ASCII
		"97803167694é8", // thirteen characters, one of them not ASCII
	}

	for _, value := range tests {
		t.Run(value, func(t *testing.T) {
			_, err := Classify(value)
			require.Error(t, err)
			assert.True(t, errcodes.HasCode(err, errcodes.CodeMalformedIdentifier))
		})
	}
}

func TestClassify_EveryLength(t *testing.T) {
	for n := 0; n <= 20; n++ {
		id, err := Classify(strings.Repeat("7", n))
		require.NoError(t, err)
		switch n {
		case 10:
			assert.Equal(t, KindISBN10, id.Kind)
		case 13:
			assert.Equal(t, KindISBN13, id.Kind)
		default:
			assert.Equal(t, KindUnrecognized, id.Kind, "length %d", n)
		}
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "9780316769488", Normalize(" ISBN 978-0 316 76948 8 "))
	assert.Equal(t, "080442957X", Normalize("0-8044-2957-x"))
	assert.Equal(t, "", Normalize("---"))
	assert.Equal(t, "9780316769488", Normalize("ISBN-13: 978-0-316-76948-8"))
	assert.Equal(t, "0316769487", Normalize("0316769487 (pbk.)"))
}

func TestISBN10AndISBN13(t *testing.T) {
	require.NotNil(t, ISBN10("0-316-76948-7"))
	assert.Equal(t, "0316769487", *ISBN10("0-316-76948-7"))
	assert.Nil(t, ISBN10("9780316769488"))
	assert.Nil(t, ISBN10("ABCDEFGHIJ"))

	require.NotNil(t, ISBN13("9780316769488"))
	assert.Equal(t, "9780316769488", *ISBN13("9780316769488"))
	assert.Nil(t, ISBN13("0316769487"))
}
