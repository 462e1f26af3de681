package artifact

// Entry describes one committed artifact.
type Entry struct {
	Sink  string `json:"sink" yaml:"sink"`
	Name  string `json:"name" yaml:"name"`
	Path  string `json:"path" yaml:"path"`
	Bytes int64  `json:"bytes" yaml:"bytes"`
}

// KB returns the artifact size in kilobytes.
func (e Entry) KB() float64 { return float64(e.Bytes) / 1024 }

// Manifest lists committed artifacts in write order.
type Manifest struct {
	Entries []Entry `json:"artifacts" yaml:"artifacts"`
}

// Add appends an entry.
func (m *Manifest) Add(entry Entry) {
	m.Entries = append(m.Entries, entry)
}

// BySink returns the entries written to the sink with the given label.
func (m Manifest) BySink(label string) []Entry {
	var out []Entry
	for _, entry := range m.Entries {
		if entry.Sink == label {
			out = append(out, entry)
		}
	}
	return out
}

// TotalBytes sums every entry's size.
func (m Manifest) TotalBytes() int64 {
	var total int64
	for _, entry := range m.Entries {
		total += entry.Bytes
	}
	return total
}
