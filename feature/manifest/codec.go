package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// The index is marshaled with a fixed key order so that persisting an
// unchanged manifest reproduces the same bytes. Unknown fields captured at
// load time are re-emitted after the known ones, sorted by name.

type objectWriter struct {
	buf   bytes.Buffer
	wrote bool
}

func (w *objectWriter) raw(key string, raw json.RawMessage) {
	if w.wrote {
		w.buf.WriteByte(',')
	} else {
		w.buf.WriteByte('{')
		w.wrote = true
	}
	keyJSON, _ := json.Marshal(key)
	w.buf.Write(keyJSON)
	w.buf.WriteByte(':')
	w.buf.Write(raw)
}

func (w *objectWriter) field(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	w.raw(key, raw)
	return nil
}

func (w *objectWriter) finish() []byte {
	if !w.wrote {
		return []byte("{}")
	}
	w.buf.WriteByte('}')
	return w.buf.Bytes()
}

// MarshalJSON emits the entry with canonical key order.
func (e *Entry) MarshalJSON() ([]byte, error) {
	w := &objectWriter{}
	if err := w.field("path", e.Path); err != nil {
		return nil, err
	}
	if err := w.field("hashes", e.Hashes); err != nil {
		return nil, err
	}
	if e.Env != nil {
		if err := w.field("env", e.Env); err != nil {
			return nil, err
		}
	}
	downloads := e.Downloads
	if downloads == nil {
		downloads = []string{}
	}
	if err := w.field("downloads", downloads); err != nil {
		return nil, err
	}
	if err := w.field("fileSize", e.FileSize); err != nil {
		return nil, err
	}
	for _, k := range sortedExtraKeys(e.extra) {
		w.raw(k, e.extra[k])
	}
	return w.finish(), nil
}

// UnmarshalJSON decodes the entry, keeping unknown fields opaquely.
func (e *Entry) UnmarshalJSON(data []byte) error {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	known := map[string]any{
		"path":      &e.Path,
		"hashes":    &e.Hashes,
		"env":       &e.Env,
		"downloads": &e.Downloads,
		"fileSize":  &e.FileSize,
	}
	for key, dst := range known {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return fmt.Errorf("failed to decode entry field %s: %w", key, err)
		}
		delete(fields, key)
	}

	if len(fields) > 0 {
		e.extra = fields
	}
	return nil
}

// MarshalJSON emits the manifest with canonical key order.
func (m *Manifest) MarshalJSON() ([]byte, error) {
	w := &objectWriter{}
	if err := w.field("game", m.Game); err != nil {
		return nil, err
	}
	if err := w.field("formatVersion", m.FormatVersion); err != nil {
		return nil, err
	}
	if err := w.field("versionId", m.VersionID); err != nil {
		return nil, err
	}
	if err := w.field("name", m.Name); err != nil {
		return nil, err
	}
	if err := w.field("summary", m.Summary); err != nil {
		return nil, err
	}
	deps := m.Dependencies
	if deps == nil {
		deps = map[string]string{}
	}
	// map marshaling sorts keys, which keeps the output stable
	if err := w.field("dependencies", deps); err != nil {
		return nil, err
	}
	files := m.Files
	if files == nil {
		files = []*Entry{}
	}
	if err := w.field("files", files); err != nil {
		return nil, err
	}
	for _, k := range sortedExtraKeys(m.extra) {
		w.raw(k, m.extra[k])
	}
	return w.finish(), nil
}

// UnmarshalJSON decodes the manifest, keeping unknown fields opaquely.
func (m *Manifest) UnmarshalJSON(data []byte) error {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	known := map[string]any{
		"game":          &m.Game,
		"formatVersion": &m.FormatVersion,
		"versionId":     &m.VersionID,
		"name":          &m.Name,
		"summary":       &m.Summary,
		"dependencies":  &m.Dependencies,
		"files":         &m.Files,
	}
	for key, dst := range known {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return fmt.Errorf("failed to decode manifest field %s: %w", key, err)
		}
		delete(fields, key)
	}

	if len(fields) > 0 {
		m.extra = fields
	}
	return nil
}
