package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/glasspane/internal/config"
	"github.com/1broseidon/glasspane/internal/discovery"
	"github.com/1broseidon/glasspane/internal/opacity"
)

// loadConfig reads the rule file strictly: a tool must not overwrite a file
// it could not fully parse.
func (s *Server) loadConfig() (*config.Config, error) {
	res, err := config.LoadFromPath(s.configPath)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	return res.Config, nil
}

func (s *Server) saveConfig(cfg *config.Config) error {
	if err := cfg.SaveTo(s.configPath); err != nil {
		return fmt.Errorf("save rules: %w", err)
	}
	return nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.loadConfig()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	snaps, err := s.enum.Enumerate(cfg)
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}

	out := ListWindowsOutput{Windows: []WindowInfo{}}
	for _, snap := range discovery.Filter(snaps, args.Title, args.Executable) {
		out.Windows = append(out.Windows, windowInfo(snap))
	}
	s.logger.Debug("list_windows", "count", len(out.Windows))
	return nil, out, nil
}

func (s *Server) handleSetOpacity(_ context.Context, _ *mcpsdk.CallToolRequest, args SetOpacityInput) (*mcpsdk.CallToolResult, SetOpacityOutput, error) {
	if args.Opacity < 0 || args.Opacity > 100 {
		return nil, SetOpacityOutput{}, fmt.Errorf("%w: %d", opacity.ErrInvalidPercent, args.Opacity)
	}
	if args.Handle == nil && args.Title == "" && args.Executable == "" {
		return nil, SetOpacityOutput{}, fmt.Errorf("set_opacity needs a handle, title or executable")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.loadConfig()
	if err != nil {
		return nil, SetOpacityOutput{}, err
	}
	snaps, err := s.enum.Enumerate(cfg)
	if err != nil {
		return nil, SetOpacityOutput{}, err
	}

	var targets []discovery.Snapshot
	if args.Handle != nil {
		for _, snap := range snaps {
			if uint64(snap.Handle) == *args.Handle {
				targets = append(targets, snap)
			}
		}
	} else {
		targets = discovery.Filter(snaps, args.Title, args.Executable)
	}
	if len(targets) == 0 {
		return nil, SetOpacityOutput{}, fmt.Errorf("no window matches")
	}

	out := SetOpacityOutput{Applied: []WindowInfo{}}
	ctrl := s.enum.Opacity()
	var persisted []discovery.Snapshot
	for _, w := range targets {
		if err := ctrl.Apply(w.Handle, args.Opacity); err != nil {
			s.logger.Warn("failed to apply opacity",
				"handle", uintptr(w.Handle),
				"title", w.Title,
				"opacity", args.Opacity,
				"error", err,
			)
			out.Failed = append(out.Failed, FailedWindow{Title: w.Title, Error: err.Error()})
			continue
		}
		if p, ok := ctrl.Current(w.Handle); ok {
			w.Transparency = discovery.Transparency{Percent: p, Valid: true}
		} else {
			w.Transparency = discovery.Transparency{}
		}
		out.Applied = append(out.Applied, windowInfo(w))
		if args.Persist {
			cfg.PersistWindow(w.Title, w.Executable, args.Opacity)
			persisted = append(persisted, w)
		}
	}

	if len(persisted) > 0 {
		out.Persisted = storedRules(cfg, persisted)
		if err := s.saveConfig(cfg); err != nil {
			return nil, SetOpacityOutput{}, err
		}
	}
	return nil, out, nil
}

// storedRules counts the distinct rules left for windows. Windows sharing a
// title or executable replace each other's rule, so this can be fewer than
// the windows persisted.
func storedRules(cfg *config.Config, windows []discovery.Snapshot) int {
	seen := make(map[[2]string]bool)
	for _, w := range windows {
		if cfg.StoredFor(w.Title, w.Executable) {
			seen[[2]string{w.Title, w.Executable}] = true
		}
	}
	return len(seen)
}

func (s *Server) handleListRules(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListRulesInput) (*mcpsdk.CallToolResult, ListRulesOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.loadConfig()
	if err != nil {
		return nil, ListRulesOutput{}, err
	}
	out := ListRulesOutput{
		DefaultOpacity: cfg.DefaultOpacity,
		Rules:          make([]RuleInfo, 0, len(cfg.SpecificWindows)),
	}
	for i, r := range cfg.SpecificWindows {
		out.Rules = append(out.Rules, RuleInfo{
			Index:      i,
			Title:      r.Title,
			Executable: r.Executable,
			Opacity:    r.Opacity,
		})
	}
	return nil, out, nil
}

func (s *Server) handleRemoveRule(_ context.Context, _ *mcpsdk.CallToolRequest, args RemoveRuleInput) (*mcpsdk.CallToolResult, RemoveRuleOutput, error) {
	if args.Title == "" && args.Executable == "" {
		return nil, RemoveRuleOutput{}, fmt.Errorf("remove_rule needs a title or executable")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.loadConfig()
	if err != nil {
		return nil, RemoveRuleOutput{}, err
	}

	// An empty argument must not match rules whose field is set to "".
	kept := cfg.SpecificWindows[:0]
	removed := 0
	for _, r := range cfg.SpecificWindows {
		if (args.Title != "" && r.Title != nil && *r.Title == args.Title) ||
			(args.Executable != "" && r.Executable != nil && *r.Executable == args.Executable) {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	cfg.SpecificWindows = kept

	if removed > 0 {
		if err := s.saveConfig(cfg); err != nil {
			return nil, RemoveRuleOutput{}, err
		}
	}
	return nil, RemoveRuleOutput{Removed: removed}, nil
}

func (s *Server) handleSetDefaultOpacity(_ context.Context, _ *mcpsdk.CallToolRequest, args SetDefaultOpacityInput) (*mcpsdk.CallToolResult, SetDefaultOpacityOutput, error) {
	if args.Opacity != nil && (*args.Opacity < 0 || *args.Opacity > 100) {
		return nil, SetDefaultOpacityOutput{}, fmt.Errorf("%w: %d", opacity.ErrInvalidPercent, *args.Opacity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.loadConfig()
	if err != nil {
		return nil, SetDefaultOpacityOutput{}, err
	}
	if args.Opacity != nil {
		cfg.DefaultOpacity = config.Int(*args.Opacity)
	} else {
		cfg.DefaultOpacity = nil
	}
	if err := s.saveConfig(cfg); err != nil {
		return nil, SetDefaultOpacityOutput{}, err
	}

	snaps, err := s.enum.Enumerate(cfg)
	if err != nil {
		return nil, SetDefaultOpacityOutput{}, err
	}
	return nil, SetDefaultOpacityOutput{DefaultOpacity: cfg.DefaultOpacity, Windows: len(snaps)}, nil
}
