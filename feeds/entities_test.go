package feeds

import (
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityReader(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "predefined", in: "a &amp; &lt;b&gt; &quot;&apos;", want: "a &amp; &lt;b&gt; &quot;&apos;"},
		{name: "numeric", in: "&#8211;&#x2013;", want: "&#8211;&#x2013;"},
		{name: "html named", in: "caf&eacute;&nbsp;", want: "caf&#233;&#160;"},
		{name: "unknown kept", in: "x &bogus; y", want: "x &bogus; y"},
		{name: "bare ampersand", in: "a=1&b=2", want: "a=1&amp;b=2"},
		{name: "ampersand before tag", in: "R&<b>", want: "R&amp;<b>"},
		{name: "double ampersand", in: "&&amp;", want: "&amp;&amp;"},
		{name: "overlong name", in: "&" + strings.Repeat("a", 40) + ";", want: "&amp;" + strings.Repeat("a", 40) + ";"},
		{name: "cdata untouched", in: "<![CDATA[&nbsp; & x]]>&nbsp;", want: "<![CDATA[&nbsp; & x]]>&#160;"},
		{name: "cdata bracket close", in: "<![CDATA[a]]]>&eacute;", want: "<![CDATA[a]]]>&#233;"},
		{name: "not cdata", in: "<![CDAT &nbsp;", want: "<![CDAT &#160;"},
		{name: "cut off entity", in: "tail &nbs", want: "tail &nbs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := io.ReadAll(newEntityReader(strings.NewReader(tt.in)))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))

			// Entities and markers split across reads
			got, err = io.ReadAll(newEntityReader(iotest.OneByteReader(strings.NewReader(tt.in))))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestEntityReaderKeepsReadError(t *testing.T) {
	r := newEntityReader(iotest.ErrReader(iotest.ErrTimeout))

	_, err := io.ReadAll(r)
	assert.ErrorIs(t, err, iotest.ErrTimeout)
}
