// Command adc-example demonstrates logging into alarm.com, fetching current
// device state, and printing resource lifecycle and WebSocket events as
// they arrive.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	adcgo "github.com/codespace-operator/adcgo"
	"github.com/codespace-operator/adcgo/internal/broker"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "adc-example:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := adcgo.LoadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	bridge, err := adcgo.NewBridge(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := login(ctx, bridge); err != nil {
		return err
	}

	if err := bridge.Initialize(ctx, nil); err != nil {
		return err
	}
	defer bridge.Close()

	bridge.Events().Subscribe(printEvent, broker.TopicResourceAdded, broker.TopicResourceUpdated,
		broker.TopicResourceDeleted, broker.TopicConnectionEvent)

	fmt.Printf("logged in as %s (dealer: %s)\n", bridge.UserEmail(), bridge.Dealer())
	for _, p := range bridge.Partitions.Items() {
		fmt.Printf("partition %s: state=%d\n", p.ID, p.Attributes.State)
	}

	<-ctx.Done()
	return nil
}

// login drives the handshake, prompting on stdin for a one-time passcode if
// the account requires two-factor authentication.
func login(ctx context.Context, bridge *adcgo.Bridge) error {
	err := bridge.Login(ctx)
	if err == nil {
		return nil
	}

	var otpErr *adcgo.OtpRequiredError
	if !errors.As(err, &otpErr) {
		return err
	}

	method := otpErr.EnabledMethods[0]
	if method != adcgo.OtpApp {
		if err := bridge.RequestOTP(ctx, method); err != nil {
			return err
		}
	}

	fmt.Print("enter one-time passcode: ")
	reader := bufio.NewReader(os.Stdin)
	code, _ := reader.ReadString('\n')

	cookie, err := bridge.SubmitOTP(ctx, trimNewline(code), method, "")
	if err != nil {
		return err
	}
	if cookie != "" {
		fmt.Println("trusted-device cookie (save as ADC_MFA_COOKIE):", cookie)
	}
	return nil
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

func printEvent(msg broker.Message) {
	switch m := msg.(type) {
	case broker.ResourceMessage:
		fmt.Printf("[%s] %s %s\n", m.Topic(), m.ResourceType, m.ResourceID)
	case broker.ConnectionMessage:
		fmt.Printf("[connection] state=%d next_attempt_in=%ds\n", m.State, m.Attempt)
	}
}
