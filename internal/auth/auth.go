// Package auth implements the HTML-scraping login flow and the OTP/MFA
// sub-protocol the provider requires before any device data can be fetched.
package auth

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/codespace-operator/adcgo/internal/apierrors"
	"github.com/codespace-operator/adcgo/internal/httpsession"
	"github.com/codespace-operator/adcgo/internal/jsonapi"
	"github.com/codespace-operator/adcgo/internal/logging"
)

const (
	loginPath     = "login"
	loginPostPath = "web/Default.aspx"

	identitiesPath  = "web/api/identities"
	profilesPath    = "web/api/profiles/profiles"
	dealersPath     = "web/api/dealers/dealers"
	twoFactorPath   = "engines/twoFactorAuthentication/twoFactorAuthentications"
	viewstateField  = "__VIEWSTATE"
	viewstateGenFld = "__VIEWSTATEGENERATOR"
	eventValidField = "__EVENTVALIDATION"
	prevPageField   = "__PREVIOUSPAGE"
)

// sessionProperties mirrors the subset of the identity resource's
// applicationSessionProperties object that the bridge exposes to callers.
type sessionProperties struct {
	shouldTimeout            bool
	inactivityWarningTimeout float64
	keepAliveURL             string
	enableKeepAlive          *bool
}

// Controller drives the login handshake and exposes the session-scoped
// properties (dealer name, email, keep-alive interval, temperature unit)
// that the rest of the library reads once per session.
type Controller struct {
	session *httpsession.Session

	username  string
	password  string
	mfaCookie string

	identityID      string
	dealerID        string
	dealerName      string
	userEmail       string
	profileID       string
	useCelsius      bool
	sessionProps    sessionProperties
	hasTrouble      bool
}

// NewController builds an auth Controller bound to the given session.
func NewController(session *httpsession.Session, username, password, mfaCookie string) *Controller {
	return &Controller{
		session:   session,
		username:  username,
		password:  password,
		mfaCookie: mfaCookie,
	}
}

// SetCredentials updates the credentials used by the next Login call.
func (c *Controller) SetCredentials(username, password, mfaCookie string) {
	c.username = username
	c.password = password
	c.mfaCookie = mfaCookie
}

// Dealer returns the Alarm.com reseller name, defaulting to "Alarm.com".
func (c *Controller) Dealer() string {
	if c.dealerName == "" {
		return "Alarm.com"
	}
	return c.dealerName
}

// UserEmail returns the logged-in user's email address.
func (c *Controller) UserEmail() string { return c.userEmail }

// ProfileID returns the logged-in user's profile resource id.
func (c *Controller) ProfileID() string { return c.profileID }

// UseCelsius reports the user's configured temperature unit preference.
func (c *Controller) UseCelsius() bool { return c.useCelsius }

// KeepAliveURL returns the keep-alive endpoint, or "" if disabled.
func (c *Controller) KeepAliveURL() string {
	if c.EnableKeepAlive() {
		return c.sessionProps.keepAliveURL
	}
	return ""
}

// EnableKeepAlive reports whether the provider wants periodic keep-alives,
// defaulting to true when the server omits the field.
func (c *Controller) EnableKeepAlive() bool {
	if c.sessionProps.enableKeepAlive == nil {
		return true
	}
	return *c.sessionProps.enableKeepAlive
}

// SessionRefreshIntervalMs returns the interval between keep-alive calls in
// milliseconds, defaulting to 5 minutes when the server omits it.
func (c *Controller) SessionRefreshIntervalMs() int {
	if c.sessionProps.inactivityWarningTimeout <= 0 {
		return 5 * 60 * 1000
	}
	return int(c.sessionProps.inactivityWarningTimeout)
}

// MFACookie returns the trusted-device cookie captured after a successful
// submitOTP(..., deviceName) call.
func (c *Controller) MFACookie() string { return c.mfaCookie }

var log = logging.For("auth")

// Login runs the full handshake: load the login page, submit credentials,
// then discover whether OTP is required. A successful return with no error
// means the session is fully authenticated; OtpRequiredError or
// MustConfigureMfaError mean the caller must drive the OTP sub-protocol
// before any other bridge call will succeed.
func (c *Controller) Login(ctx context.Context) error {
	if c.username == "" || c.password == "" {
		return apierrors.NewAuthenticationFailed("username and password are required", false)
	}

	log.Info("logging in to alarm.com")

	c.session.SetAjaxKey("")

	fields, err := c.loginPreload(ctx)
	if err != nil {
		return err
	}

	if err := c.loginSubmitCredentials(ctx, fields); err != nil {
		return err
	}

	log.Info("logged in, checking mfa requirements")

	return c.loginOtpDiscovery(ctx)
}

func (c *Controller) loginPreload(ctx context.Context) (map[string]string, error) {
	_, body, err := c.session.GetHTML(ctx, loginPath)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{}
	for _, id := range []string{viewstateField, viewstateGenFld, eventValidField, prevPageField} {
		v, ok := hiddenFieldValue(body, id)
		if !ok {
			return nil, apierrors.NewUnexpectedResponse("login page missing hidden field "+id, nil)
		}
		fields[id] = v
	}
	return fields, nil
}

func (c *Controller) loginSubmitCredentials(ctx context.Context, fields map[string]string) error {
	form := url.Values{}
	form.Set("ctl00$ContentPlaceHolder1$loginform$txtUserName", c.username)
	form.Set("txtPassword", c.password)
	form.Set(viewstateField, fields[viewstateField])
	form.Set(viewstateGenFld, fields[viewstateGenFld])
	form.Set(eventValidField, fields[eventValidField])
	form.Set(prevPageField, fields[prevPageField])
	form.Set("IsFromNewSite", "1")

	resp, err := c.session.PostForm(ctx, loginPostPath, form)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	finalURL := ""
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	if strings.Contains(finalURL, "m=login_fail") {
		return apierrors.NewAuthenticationFailed("invalid username or password", false)
	}
	if strings.Contains(finalURL, "m=LockedOut") {
		return apierrors.NewAuthenticationFailed("account is locked", false)
	}

	// The anti-forgery cookie is not always present; its absence is not
	// fatal since some deployments rely solely on the session cookie.
	if jar := c.session.CookieJar(); jar != nil {
		base, _ := url.Parse("https://www.alarm.com/")
		for _, ck := range jar.Cookies(base) {
			if ck.Name == "afg" {
				c.session.SetAjaxKey(ck.Value)
			}
		}
	}
	if c.session.AjaxKey() == "" {
		// Fall back to a sentinel so downstream requests carry a
		// (possibly stale) ajaxrequestuniquekey header rather than
		// failing fast with NotAuthorized before the server has a
		// chance to reject the session itself.
		c.session.SetAjaxKey("unset")
	}
	return nil
}

func (c *Controller) loginOtpDiscovery(ctx context.Context) error {
	identity, err := c.fetchIdentity(ctx)
	if err != nil {
		return err
	}
	c.identityID = string(identity.ID)
	c.hasTrouble = identity.AttrBool("has_trouble_conditions_service")
	c.useCelsius = identity.AttrBool("localize_temp_units_to_celsius")
	c.dealerID = identity.AttrString("dealer_id")
	c.sessionProps = parseSessionProperties(identity.Attributes["application_session_properties"])

	if c.dealerID != "" {
		if name, derr := c.fetchDealerName(ctx, c.dealerID); derr == nil {
			c.dealerName = name
		} else {
			log.Warn("failed to fetch dealer", "err", derr)
		}
	}

	if profile, perr := c.fetchProfile(ctx); perr == nil {
		c.profileID = string(profile.ID)
		c.userEmail = profile.AttrString("email")
	} else {
		return perr
	}

	return c.checkOtp(ctx)
}

func (c *Controller) fetchIdentity(ctx context.Context) (jsonapi.Resource, error) {
	doc, err := c.session.Get(ctx, identitiesPath)
	if err != nil {
		return jsonapi.Resource{}, err
	}
	resources := doc.Many()
	if r, ok := doc.One(); ok {
		resources = []jsonapi.Resource{r}
	}
	if len(resources) == 0 {
		return jsonapi.Resource{}, apierrors.NewUnexpectedResponse("no identities found", nil)
	}
	return resources[0], nil
}

func (c *Controller) fetchProfile(ctx context.Context) (jsonapi.Resource, error) {
	doc, err := c.session.Get(ctx, profilesPath)
	if err != nil {
		return jsonapi.Resource{}, err
	}
	if r, ok := doc.One(); ok {
		return r, nil
	}
	if many := doc.Many(); len(many) > 0 {
		return many[0], nil
	}
	return jsonapi.Resource{}, apierrors.NewUnexpectedResponse("no profile found", nil)
}

func (c *Controller) fetchDealerName(ctx context.Context, dealerID string) (string, error) {
	doc, err := c.session.Get(ctx, fmt.Sprintf("%s/%s", dealersPath, dealerID))
	if err != nil {
		return "", err
	}
	if r, ok := doc.One(); ok {
		return r.AttrString("name"), nil
	}
	return "", apierrors.NewUnexpectedResponse("no dealer found", nil)
}

func (c *Controller) checkOtp(ctx context.Context) error {
	doc, err := c.session.Get(ctx, fmt.Sprintf("%s/%s", twoFactorPath, c.identityID))
	if err != nil {
		return err
	}
	resource, ok := doc.One()
	if !ok {
		return apierrors.NewUnexpectedResponse("two-factor authentication resource missing", nil)
	}

	if resource.AttrBool("show_suggested_setup") {
		return &apierrors.MustConfigureMfaError{}
	}

	bitmask, _ := resource.AttrFloat("enabled_two_factor_types")
	methods := enabledMethods(int(bitmask))

	trusted := resource.AttrBool("is_current_device_trusted")
	if containsDisabled(methods) || trusted || int(bitmask) == 0 || len(methods) == 0 {
		return nil
	}

	log.Info("two-factor authentication required", "methods", methods)

	req := &apierrors.OtpRequiredError{
		EnabledMethods: methods,
		Email:          resource.AttrString("email"),
	}
	if sms, ok := resource.Attributes["sms_mobile_number"].(map[string]any); ok {
		if cc, ok := sms["country"].(string); ok {
			req.SMSCountryCode = cc
		}
		if num, ok := sms["mobileNumber"].(string); ok {
			req.SMSNumber = num
		}
	}
	return req
}

func enabledMethods(bitmask int) []apierrors.OtpMethod {
	var out []apierrors.OtpMethod
	for _, m := range []apierrors.OtpMethod{apierrors.OtpDisabled, apierrors.OtpApp, apierrors.OtpSMS, apierrors.OtpEmail} {
		if bitmask&int(m) != 0 {
			out = append(out, m)
		}
	}
	return out
}

func containsDisabled(methods []apierrors.OtpMethod) bool {
	for _, m := range methods {
		if m == apierrors.OtpDisabled {
			return true
		}
	}
	return false
}

// RequestOTP asks the provider to deliver a one-time code via SMS or email.
// It is a no-op for the app/disabled methods, which need no server-initiated
// delivery.
func (c *Controller) RequestOTP(ctx context.Context, method apierrors.OtpMethod) error {
	var action string
	switch method {
	case apierrors.OtpSMS:
		action = "sendTwoFactorAuthenticationCodeViaSms"
	case apierrors.OtpEmail:
		action = "sendTwoFactorAuthenticationCodeViaEmail"
	default:
		return nil
	}
	_, err := c.session.Post(ctx, fmt.Sprintf("%s/%s/%s", twoFactorPath, c.identityID, action), nil)
	return err
}

// SubmitOTP verifies a one-time code and, if deviceName is non-empty, trusts
// this device so future logins skip OTP. It returns the resulting trusted-
// device cookie when a device was registered.
func (c *Controller) SubmitOTP(ctx context.Context, code string, method apierrors.OtpMethod, deviceName string) (string, error) {
	body := jsonapi.CamelizeBody(map[string]any{
		"code":       code,
		"type_of2fa": int(method),
	})
	if _, err := c.session.Post(ctx, fmt.Sprintf("%s/%s/%s", twoFactorPath, c.identityID, "verifyTwoFactorCode"), body); err != nil {
		return "", err
	}

	if deviceName == "" {
		return "", nil
	}
	if deviceName == "auto" {
		hostname, _ := os.Hostname()
		deviceName = "adcgo on " + hostname
	}

	trustBody := jsonapi.CamelizeBody(map[string]any{"device_name": deviceName})
	if _, err := c.session.Post(ctx, fmt.Sprintf("%s/%s/%s", twoFactorPath, c.identityID, "trustTwoFactorDevice"), trustBody); err != nil {
		return "", err
	}

	if jar := c.session.CookieJar(); jar != nil {
		base, _ := url.Parse("https://www.alarm.com/")
		for _, ck := range jar.Cookies(base) {
			if ck.Name == "twoFactorAuthenticationId" {
				c.mfaCookie = ck.Value
				c.session.SetMFAToken(ck.Value)
			}
		}
	}

	if c.mfaCookie == "" {
		return "", apierrors.NewUnexpectedResponse("could not find mfa cookie after trusting device", nil)
	}
	return c.mfaCookie, nil
}

func parseSessionProperties(raw any) sessionProperties {
	m, ok := raw.(map[string]any)
	if !ok {
		return sessionProperties{}
	}
	props := sessionProperties{}
	if v, ok := m["keepAliveUrl"].(string); ok {
		props.keepAliveURL = v
	}
	if v, ok := m["inactivityWarningTimeoutMs"].(float64); ok {
		props.inactivityWarningTimeout = v
	}
	if v, ok := m["shouldTimeout"].(bool); ok {
		props.shouldTimeout = v
	}
	if v, ok := m["enableKeepAlive"].(bool); ok {
		props.enableKeepAlive = &v
	}
	return props
}
