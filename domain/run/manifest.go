package run

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"paleocore/domain/core"
)

// InputRef identifies one input file by path and content hash
type InputRef struct {
	Path string    `json:"path"`
	Hash core.Hash `json:"hash"`
}

// RunManifest records what a command read, with which parameters, and what it wrote.
// Two runs with the same fingerprint processed identical inputs identically.
type RunManifest struct {
	RunID       core.RunID        `json:"run_id"`
	Command     string            `json:"command"`
	Inputs      []InputRef        `json:"inputs"`
	Params      map[string]string `json:"params"`
	Outputs     []string          `json:"outputs"`
	CodeVersion string            `json:"code_version"`
	Fingerprint core.Hash         `json:"fingerprint"`
	CreatedAt   time.Time         `json:"created_at"`
}

// NewRunManifest creates a manifest for one command invocation
func NewRunManifest(command string, inputs []InputRef, params map[string]string, codeVersion string) *RunManifest {
	return &RunManifest{
		RunID:       core.NewRunID(),
		Command:     command,
		Inputs:      inputs,
		Params:      params,
		CodeVersion: codeVersion,
		Fingerprint: NewRunFingerprint(command, inputs, params, codeVersion),
		CreatedAt:   time.Now().UTC(),
	}
}

// NewRunFingerprint hashes the command, the input hashes and the parameters.
// Input paths are not part of it, so a moved file keeps its fingerprint.
func NewRunFingerprint(command string, inputs []InputRef, params map[string]string, codeVersion string) core.Hash {
	var b strings.Builder
	fmt.Fprintf(&b, "command=%s\nversion=%s\n", command, codeVersion)
	for _, in := range inputs {
		fmt.Fprintf(&b, "input=%s\n", in.Hash)
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, params[k])
	}
	return core.NewHash([]byte(b.String()))
}

// AddOutput records a file or sheet the run wrote
func (r *RunManifest) AddOutput(output string) {
	r.Outputs = append(r.Outputs, output)
}

// Validate checks if the manifest is complete
func (r *RunManifest) Validate() error {
	if core.ID(r.RunID).IsEmpty() {
		return fmt.Errorf("run manifest: run_id cannot be empty")
	}
	if r.Command == "" {
		return fmt.Errorf("run manifest: command cannot be empty")
	}
	for i, in := range r.Inputs {
		if in.Hash.IsEmpty() {
			return fmt.Errorf("run manifest: input %d (%s) has no hash", i, in.Path)
		}
	}
	if r.Fingerprint.IsEmpty() {
		return fmt.Errorf("run manifest: fingerprint cannot be empty")
	}
	return nil
}
