package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNewFromRegistry(t *testing.T) {
	err := New("E101")
	if err.Category != CategoryConfig {
		t.Errorf("Category = %q, want config", err.Category)
	}
	if !strings.HasPrefix(err.Error(), "E101: ") {
		t.Errorf("Error() = %q, want E101 prefix", err.Error())
	}
}

func TestNewUnknownCode(t *testing.T) {
	err := New("E999")
	if err.Message != "Unknown error" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestAllCodesHaveMessages(t *testing.T) {
	for _, code := range GetAllCodes() {
		tmpl, ok := GetTemplate(code)
		if !ok || tmpl.Message == "" || tmpl.Category == "" {
			t.Errorf("code %s has incomplete template %+v", code, tmpl)
		}
	}
}

func TestWrapAndUnwrap(t *testing.T) {
	cause := stderrors.New("disk on fire")
	err := FromError(cause, "E302")
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if !stderrors.Is(err, New("E302")) {
		t.Error("errors.Is should match on code")
	}
	if stderrors.Is(err, New("E301")) {
		t.Error("errors.Is should not match a different code")
	}
	if FromError(nil, "E302") != nil {
		t.Error("FromError(nil) should be nil")
	}
}

func TestHasCodeThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("loading: %w", New("E301").Wrap(New("E302")))
	if !HasCode(err, "E301") || !HasCode(err, "E302") {
		t.Error("HasCode should see both nested codes")
	}
	if HasCode(err, "E101") {
		t.Error("HasCode should not report absent code")
	}
}

func TestFormat(t *testing.T) {
	out := New("E101").Format()
	for _, want := range []string{"ERROR E101", "Hint:", "breadcrumb.Provider"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
}

func TestAs(t *testing.T) {
	ce, ok := As(fmt.Errorf("render: %w", New("E201")))
	if !ok || ce.Code != "E201" {
		t.Errorf("As = %v, %v; want E201", ce, ok)
	}
	if _, ok := As(stderrors.New("plain")); ok {
		t.Error("As should not find a CrumbError in a plain error")
	}
}
