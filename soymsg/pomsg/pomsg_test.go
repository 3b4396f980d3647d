package pomsg

import (
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/gosoy/soyjs/soymsg"
)

func TestPOBundle(t *testing.T) {
	var pomsgs, err = Dir("testdata")
	if err != nil {
		t.Fatal(err)
	}

	var bundle = pomsgs.Bundle("zz")
	if bundle == nil {
		t.Fatal("zz bundle not found")
	}
	var tests = []struct {
		id  uint64
		str string
	}{
		{3329840836245051515, "zA ztrip zwas ztaken."},
		{6936162475751860807, "zHello z{NAME}!"},
		{7224011416745566687, "zArchiveNoun"},
		{4826315192146469447, "zArchiveVerb"},
		{1234567890123456789, ""},
	}

	for _, test := range tests {
		var actual = bundle.Message(test.id)
		if actual == nil {
			if test.str == "" {
				continue
			}
			t.Errorf("msg not found: %v", test.id)
			continue
		}

		var expected = soymsg.NewMessage(test.id, test.str)
		if !reflect.DeepEqual(&expected, actual) {
			t.Errorf("expected:\n%v\ngot:\n%v", expected, actual)
		}
	}
}

func TestPOBundlePlural(t *testing.T) {
	var pomsgs, err = Dir("testdata")
	if err != nil {
		t.Fatal(err)
	}

	var bundle = pomsgs.Bundle("zz")
	if bundle == nil {
		t.Fatal("zz bundle not found")
	}
	var actual = bundle.Message(6009146166063892533)
	if actual == nil {
		t.Fatal("plural msg not found")
	}
	if len(actual.Parts) != 1 {
		t.Fatalf("expected one plural part, got %v", actual.Parts)
	}
	var part, ok = actual.Parts[0].(soymsg.PluralPart)
	if !ok {
		t.Fatalf("expected a plural part, got %#v", actual.Parts[0])
	}
	if part.VarName != "NUM_EGGS" {
		t.Errorf("expected var name from the reference comment, got %q", part.VarName)
	}
	if len(part.Cases) != 2 {
		t.Fatalf("expected two plural cases, got %v", part.Cases)
	}
	if !reflect.DeepEqual(part.Cases[0].Parts, soymsg.Parts("zone zegg")) {
		t.Errorf("unexpected singular case: %v", part.Cases[0].Parts)
	}
	if !reflect.DeepEqual(part.Cases[1].Parts, soymsg.Parts("z{NUM_EGGS} zeggs")) {
		t.Errorf("unexpected plural case: %v", part.Cases[1].Parts)
	}

	// plural=(n != 1)
	if c := bundle.PluralCase(1); c != 0 {
		t.Errorf("PluralCase(1) = %v, want 0", c)
	}
	if c := bundle.PluralCase(5); c != 1 {
		t.Errorf("PluralCase(5) = %v, want 1", c)
	}
}

func TestPOBundleNotFound(t *testing.T) {
	var pomsgs, err = Dir("testdata")
	if err != nil {
		t.Fatal(err)
	}

	var bundle = pomsgs.Bundle("xx")
	if bundle != nil {
		t.Errorf("expected null bundle, got %#v", bundle)
	}
}

// mapOpener serves po files from memory, keyed by locale.
type mapOpener map[string]string

func (o mapOpener) Open(locale string) (io.ReadCloser, error) {
	content, ok := o[locale]
	if !ok {
		return nil, nil
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

const enPO = `msgid ""
msgstr ""
"Plural-Forms: nplurals=2; plural=(n != 1);\n"

#: id=42
msgid "Hello"
msgstr "Hello there"
`

// A locale with no file of its own falls back to its canonical form.
func TestLoadLocaleFallback(t *testing.T) {
	var pomsgs, err = Load(mapOpener{"en": enPO}, []string{"en-US"})
	if err != nil {
		t.Fatal(err)
	}

	var bundle = pomsgs.Bundle("en-US")
	if bundle == nil {
		t.Fatal("expected en-US to fall back to the en file")
	}
	if msg := bundle.Message(42); msg == nil {
		t.Error("fallback bundle is missing messages")
	}
}
