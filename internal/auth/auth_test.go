package auth

import (
	"testing"

	"github.com/codespace-operator/adcgo/internal/apierrors"
)

func TestHiddenFieldValue_FindsInputById(t *testing.T) {
	doc := `<html><body><form>
		<input type="hidden" id="__VIEWSTATE" value="abc123" />
		<input type="hidden" id="__EVENTVALIDATION" value="xyz789" />
	</form></body></html>`

	v, ok := hiddenFieldValue(doc, "__VIEWSTATE")
	if !ok || v != "abc123" {
		t.Errorf("hiddenFieldValue(__VIEWSTATE) = (%q, %v), want (abc123, true)", v, ok)
	}

	v, ok = hiddenFieldValue(doc, "__EVENTVALIDATION")
	if !ok || v != "xyz789" {
		t.Errorf("hiddenFieldValue(__EVENTVALIDATION) = (%q, %v), want (xyz789, true)", v, ok)
	}
}

func TestHiddenFieldValue_MissingFieldReturnsFalse(t *testing.T) {
	doc := `<html><body><form></form></body></html>`

	if _, ok := hiddenFieldValue(doc, "__VIEWSTATE"); ok {
		t.Error("expected ok=false for a missing hidden field")
	}
}

func TestEnabledMethods_DecodesBitmask(t *testing.T) {
	methods := enabledMethods(int(apierrors.OtpApp) | int(apierrors.OtpSMS))

	if len(methods) != 2 {
		t.Fatalf("got %d methods, want 2", len(methods))
	}
	if methods[0] != apierrors.OtpApp || methods[1] != apierrors.OtpSMS {
		t.Errorf("methods = %v, want [OtpApp OtpSMS]", methods)
	}
}

func TestEnabledMethods_DisabledBitmask(t *testing.T) {
	methods := enabledMethods(int(apierrors.OtpDisabled))

	if len(methods) != 1 || methods[0] != apierrors.OtpDisabled {
		t.Errorf("methods = %v, want [OtpDisabled]", methods)
	}
	if !containsDisabled(methods) {
		t.Error("containsDisabled should report true for a disabled-only bitmask")
	}
}

func TestParseSessionProperties_ExtractsKnownFields(t *testing.T) {
	raw := map[string]any{
		"keepAliveUrl":               "web/system/keepAlive",
		"inactivityWarningTimeoutMs": float64(300000),
		"shouldTimeout":              true,
		"enableKeepAlive":            false,
	}

	props := parseSessionProperties(raw)

	if props.keepAliveURL != "web/system/keepAlive" {
		t.Errorf("keepAliveURL = %q, want web/system/keepAlive", props.keepAliveURL)
	}
	if props.inactivityWarningTimeout != 300000 {
		t.Errorf("inactivityWarningTimeout = %v, want 300000", props.inactivityWarningTimeout)
	}
	if props.enableKeepAlive == nil || *props.enableKeepAlive != false {
		t.Errorf("enableKeepAlive = %v, want pointer to false", props.enableKeepAlive)
	}
}

func TestParseSessionProperties_NonMapReturnsZeroValue(t *testing.T) {
	props := parseSessionProperties("not a map")

	if props.keepAliveURL != "" || props.enableKeepAlive != nil {
		t.Errorf("props = %+v, want zero value for a non-map input", props)
	}
}

func TestController_KeepAliveURL_DisabledReturnsEmpty(t *testing.T) {
	c := &Controller{sessionProps: sessionProperties{keepAliveURL: "web/system/keepAlive"}}
	disabled := false
	c.sessionProps.enableKeepAlive = &disabled

	if got := c.KeepAliveURL(); got != "" {
		t.Errorf("KeepAliveURL() = %q, want empty when keep-alive disabled", got)
	}
}

func TestController_SessionRefreshIntervalMs_DefaultsWhenUnset(t *testing.T) {
	c := &Controller{}

	if got := c.SessionRefreshIntervalMs(); got != 5*60*1000 {
		t.Errorf("SessionRefreshIntervalMs() = %d, want %d", got, 5*60*1000)
	}
}

func TestController_Dealer_DefaultsToAlarmDotCom(t *testing.T) {
	c := &Controller{}

	if got := c.Dealer(); got != "Alarm.com" {
		t.Errorf("Dealer() = %q, want Alarm.com", got)
	}
}
