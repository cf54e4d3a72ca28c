package light

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nerrad567/piplant-core/internal/component"
	"github.com/nerrad567/piplant-core/internal/infrastructure/config"
	"github.com/nerrad567/piplant-core/internal/infrastructure/logging"
	"github.com/nerrad567/piplant-core/internal/plant"
)

const (
	lifxRequestTimeout = 10 * time.Second
	lifxMaxErrorBody   = 4096
)

// Defaults for LIFX groups: the cloud API rate-limits, so state is queried
// sparingly and failed calls are not retried unless configured.
var lifxDefaults = GroupOptions{
	QueryInterval: 2 * time.Minute,
}

// lifxLight is one entry of GET /lights/{selector}.
type lifxLight struct {
	ID         string  `json:"id"`
	Label      string  `json:"label"`
	Connected  bool    `json:"connected"`
	Power      string  `json:"power"`
	Brightness float64 `json:"brightness"`
	Color      struct {
		Hue        float64 `json:"hue"`
		Saturation float64 `json:"saturation"`
		Kelvin     int     `json:"kelvin"`
	} `json:"color"`
}

// lifxState is the body of PUT /lights/{selector}/state.
type lifxState struct {
	Power    string  `json:"power,omitempty"`
	Color    string  `json:"color,omitempty"`
	Duration float64 `json:"duration"`
}

type lifxResults struct {
	Results []struct {
		ID     string `json:"id"`
		Label  string `json:"label"`
		Status string `json:"status"`
	} `json:"results"`
}

// LIFX is a group Backend for the LIFX HTTP API.
type LIFX struct {
	baseURL  string
	token    string
	selector string
	client   *http.Client
}

// NewLIFX returns a backend addressing selector (for example "group:Porch").
func NewLIFX(baseURL, token, selector string, client *http.Client) *LIFX {
	if client == nil {
		client = &http.Client{Timeout: lifxRequestTimeout}
	}
	return &LIFX{
		baseURL:  strings.TrimRight(baseURL, "/"),
		token:    token,
		selector: selector,
		client:   client,
	}
}

func (l *LIFX) endpoint(suffix string) string {
	return l.baseURL + "/lights/" + url.PathEscape(l.selector) + suffix
}

// do sends a request and decodes a JSON response into out. 401, 403, 404
// and 422 answers are permanent; everything else may be retried.
func (l *LIFX) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return Permanent(err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return Permanent(err)
	}
	req.Header.Set("Authorization", "Bearer "+l.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("lifx %s %s: %w", method, l.selector, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, lifxMaxErrorBody)) //nolint:errcheck // best effort detail
		if json.Unmarshal(raw, &apiErr) != nil || apiErr.Error == "" {
			apiErr.Error = strings.TrimSpace(string(raw))
		}
		err := fmt.Errorf("lifx %s %s: %s: %s", method, l.selector, resp.Status, apiErr.Error)
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound, http.StatusUnprocessableEntity:
			return Permanent(err)
		}
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("lifx %s %s: decoding response: %w", method, l.selector, err)
	}
	return nil
}

func (l *LIFX) list(ctx context.Context) ([]lifxLight, error) {
	var lights []lifxLight
	if err := l.do(ctx, http.MethodGet, l.endpoint(""), nil, &lights); err != nil {
		return nil, err
	}
	return lights, nil
}

// Powers lists the group's lights.
func (l *LIFX) Powers(ctx context.Context) ([]bool, error) {
	lights, err := l.list(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]bool, len(lights))
	for i, light := range lights {
		out[i] = light.Power == "on"
	}
	return out, nil
}

// Colors lists the group's lights.
func (l *LIFX) Colors(ctx context.Context) ([]plant.Color, error) {
	lights, err := l.list(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]plant.Color, len(lights))
	for i, light := range lights {
		out[i] = plant.Color{
			Hue:        light.Color.Hue,
			Saturation: light.Color.Saturation,
			Brightness: light.Brightness,
			Kelvin:     light.Color.Kelvin,
		}
	}
	return out, nil
}

// SetPower switches the group.
func (l *LIFX) SetPower(ctx context.Context, on bool, transition time.Duration) error {
	return l.setState(ctx, lifxState{Power: powerFlag(on), Duration: transition.Seconds()})
}

// SetColor sets color and power in one request.
func (l *LIFX) SetColor(ctx context.Context, c plant.Color, transition time.Duration) error {
	return l.setState(ctx, lifxState{
		Power:    powerFlag(c.Brightness > 0),
		Color:    colorString(c),
		Duration: transition.Seconds(),
	})
}

// setState fails when any light reports timed_out or offline, so the group
// retries the whole request.
func (l *LIFX) setState(ctx context.Context, state lifxState) error {
	var results lifxResults
	if err := l.do(ctx, http.MethodPut, l.endpoint("/state"), state, &results); err != nil {
		return err
	}
	for _, r := range results.Results {
		if r.Status != "ok" {
			return fmt.Errorf("lifx light %s (%s): %s", r.Label, r.ID, r.Status)
		}
	}
	return nil
}

func powerFlag(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

// colorString renders c in the LIFX color syntax. A zero kelvin is left
// out so the bulb keeps its white point.
func colorString(c plant.Color) string {
	parts := []string{
		fmt.Sprintf("hue:%g", c.Hue),
		fmt.Sprintf("saturation:%g", c.Saturation),
		fmt.Sprintf("brightness:%g", c.Brightness),
	}
	if c.Kelvin > 0 {
		parts = append(parts, fmt.Sprintf("kelvin:%d", c.Kelvin))
	}
	return strings.Join(parts, " ")
}

// newLIFXGroup builds a LIFX group from kwargs:
//
//	name       group name (required); also the LIFX group label
//	selector   LIFX selector (default "group:<name>")
//	token      API token (default lifx.token from config.yaml)
//	base_url   API root (default lifx.base_url)
//	query_interval (2m), retry_interval (0s), max_retries (0)
//
// The group is queried once on construction so a bad token or an unknown
// group fails the resolution pass.
func newLIFXGroup(ctx context.Context, args component.Args) (any, error) {
	site := config.FromContext(ctx).LIFX

	args.Require("name")
	name := args.String("name", "")
	selector := args.String("selector", "group:"+name)
	token := args.String("token", site.Token)
	baseURL := args.String("base_url", site.BaseURL)
	opts := optionsFrom(args, lifxDefaults)
	if err := args.Err(); err != nil {
		return nil, err
	}
	if token == "" {
		return nil, fmt.Errorf("lifx group %s: token is required (kwargs.token, lifx.token or PIPLANT_LIFX_TOKEN)", name)
	}
	if baseURL == "" {
		return nil, fmt.Errorf("lifx group %s: base_url is required", name)
	}

	g, err := NewGroup(name, NewLIFX(baseURL, token, selector, nil), opts)
	if err != nil {
		return nil, err
	}
	g.SetLogger(logging.FromContext(ctx).Component("light").With("group", name))
	if err := g.Refresh(ctx); err != nil {
		return nil, err
	}
	return g, nil
}
