package probe

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/TomDeRybel/probe-rs/internal/logging"
	"github.com/TomDeRybel/probe-rs/internal/probe/targets"
)

// Options are the shared connection parameters accepted by every
// command that needs a target. Resolving them produces exactly one
// attached Session; resolution performs no retries.
type Options struct {
	// Chip is the target chip name; empty selects the catalog default
	Chip string

	// Selector narrows probe enumeration. Accepted forms: empty (any
	// probe), a driver name (e.g. "sim"), or VID:PID[:serial] in hex.
	Selector string

	// Protocol is the requested wire protocol token (swd or jtag)
	Protocol string

	// SpeedKHz is the requested interface clock; 0 lets the probe choose
	SpeedKHz int

	// ConnectUnderReset holds the target in reset during attach
	ConnectUnderReset bool
}

// selector is a parsed VID:PID[:serial] probe selector.
type selector struct {
	vendorID  uint16
	productID uint16
	serial    string
	driver    string // set instead of vid/pid when the selector is a driver name
}

func parseSelector(s string) (*selector, error) {
	if s == "" {
		return &selector{}, nil
	}
	if _, ok := driverByName(strings.ToLower(s)); ok {
		return &selector{driver: strings.ToLower(s)}, nil
	}

	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return nil, fmt.Errorf("invalid probe selector %q (expected driver name or VID:PID[:serial])", s)
	}
	vid, err := strconv.ParseUint(parts[0], 16, 16)
	if err != nil {
		return nil, fmt.Errorf("invalid vendor id in selector %q: %w", s, err)
	}
	pid, err := strconv.ParseUint(parts[1], 16, 16)
	if err != nil {
		return nil, fmt.Errorf("invalid product id in selector %q: %w", s, err)
	}
	sel := &selector{vendorID: uint16(vid), productID: uint16(pid)}
	if len(parts) == 3 {
		sel.serial = parts[2]
	}
	return sel, nil
}

func (sel *selector) matches(info Info) bool {
	if sel.driver != "" {
		return info.Driver == sel.driver
	}
	if sel.vendorID == 0 && sel.productID == 0 {
		return true
	}
	if info.VendorID != sel.vendorID || info.ProductID != sel.productID {
		return false
	}
	if sel.serial != "" && info.SerialNumber != sel.serial {
		return false
	}
	return true
}

// SimpleAttach resolves the options into one attached session. It
// fails when no probe matches, when more than one probe matches, when
// the chip is not in the target catalog, or when the protocol
// handshake fails. The caller owns the returned session and must
// close it when the command invocation ends.
func (o *Options) SimpleAttach(logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	sel, err := parseSelector(o.Selector)
	if err != nil {
		return nil, &AttachError{Selector: o.Selector, Reason: "invalid selector", Err: err}
	}

	var matched []Info
	for _, info := range ListAll() {
		if sel.matches(info) {
			matched = append(matched, info)
		}
	}
	if len(matched) == 0 {
		return nil, &AttachError{Selector: o.Selector, Reason: "no probe was found"}
	}
	if len(matched) > 1 {
		return nil, &AttachError{
			Selector: o.Selector,
			Reason:   fmt.Sprintf("%d probes match, use a selector to pick one", len(matched)),
		}
	}
	info := matched[0]

	protocol, err := ParseProtocol(o.Protocol)
	if err != nil {
		return nil, &AttachError{Selector: o.Selector, Reason: "invalid protocol", Err: err}
	}

	target := targets.Default()
	if o.Chip != "" {
		t, ok := targets.Get(o.Chip)
		if !ok {
			return nil, &AttachError{
				Selector: o.Selector,
				Reason:   fmt.Sprintf("unknown chip %q", o.Chip),
			}
		}
		target = t
	}

	driver, ok := driverByName(info.Driver)
	if !ok {
		return nil, &AttachError{Selector: o.Selector, Reason: "driver " + info.Driver + " not registered"}
	}
	transport, err := driver.Open(info)
	if err != nil {
		return nil, &AttachError{Selector: o.Selector, Reason: "failed to open probe", Err: err}
	}

	cfg := AttachConfig{
		Protocol:          protocol,
		SpeedKHz:          o.SpeedKHz,
		ConnectUnderReset: o.ConnectUnderReset,
	}
	if err := transport.Attach(target, cfg); err != nil {
		_ = transport.Close()
		return nil, &AttachError{Selector: o.Selector, Reason: "target handshake failed", Err: err}
	}

	logging.LogProbeAttach(info.String(), target.Name, string(protocol), o.SpeedKHz)

	return newSession(info, target, protocol, transport, logger), nil
}
