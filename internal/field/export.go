package field

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Header describes a stored Maps payload.
type Header struct {
	Name      string        `json:"name"`
	DType     string        `json:"dtype"`
	ByteOrder string        `json:"byte_order"`
	Fields    []FieldHeader `json:"fields"`
}

// FieldHeader locates one field inside the payload.
type FieldHeader struct {
	Name   string `json:"name"`
	Shape  []int  `json:"shape"`
	Offset int64  `json:"offset"` // in bytes
}

func (m *Maps) named() []struct {
	name string
	f    *Field
} {
	return []struct {
		name string
		f    *Field
	}{
		{"intensity", m.Intensity},
		{"reg1", m.Reg1},
		{"reg2", m.Reg2},
		{"scale1", m.Scale1},
		{"scale2", m.Scale2},
	}
}

// WriteFile stores maps as dir/name.json (header) and dir/name.bin
// (little-endian float32 data in header order).
func WriteFile(dir, name string, m *Maps) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	hdr := Header{Name: name, DType: "float32", ByteOrder: "little"}
	var offset int64
	for _, nf := range m.named() {
		hdr.Fields = append(hdr.Fields, FieldHeader{Name: nf.name, Shape: nf.f.Shape, Offset: offset})
		offset += int64(len(nf.f.Data)) * 4
	}

	data, err := json.MarshalIndent(hdr, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode header: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".json"), data, 0644); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, name+".bin"))
	if err != nil {
		return fmt.Errorf("failed to create payload: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, nf := range m.named() {
		if err := binary.Write(w, binary.LittleEndian, nf.f.Data); err != nil {
			return fmt.Errorf("failed to write %s: %w", nf.name, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush payload: %w", err)
	}
	return f.Close()
}

// ReadFile loads maps written by WriteFile.
func ReadFile(dir, name string) (*Maps, error) {
	data, err := os.ReadFile(filepath.Join(dir, name+".json"))
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	var hdr Header
	if err := json.Unmarshal(data, &hdr); err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	f, err := os.Open(filepath.Join(dir, name+".bin"))
	if err != nil {
		return nil, fmt.Errorf("failed to open payload: %w", err)
	}
	defer f.Close()

	fields := make(map[string]*Field, len(hdr.Fields))
	for _, fh := range hdr.Fields {
		if _, err := f.Seek(fh.Offset, io.SeekStart); err != nil {
			return nil, fmt.Errorf("failed to seek to %s: %w", fh.Name, err)
		}
		fd := NewField(0, fh.Shape...)
		if err := binary.Read(bufio.NewReader(f), binary.LittleEndian, fd.Data); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", fh.Name, err)
		}
		fields[fh.Name] = fd
	}

	m := &Maps{
		Intensity: fields["intensity"],
		Reg1:      fields["reg1"],
		Reg2:      fields["reg2"],
		Scale1:    fields["scale1"],
		Scale2:    fields["scale2"],
	}
	if m.Intensity == nil || m.Reg1 == nil || m.Reg2 == nil || m.Scale1 == nil || m.Scale2 == nil {
		return nil, fmt.Errorf("payload %s is missing fields", name)
	}
	return m, nil
}
