package api

import "io"

// progressReader reports upload progress as the request body is consumed.
// Percentages never move backwards and 100 fires exactly once, so callers
// can key UI transitions off it.
type progressReader struct {
	r        io.Reader
	total    int64
	read     int64
	last     int
	done     bool
	callback ProgressFunc
}

func newProgressReader(r io.Reader, total int64, callback ProgressFunc) io.Reader {
	if callback == nil {
		return r
	}
	return &progressReader{r: r, total: total, last: -1, callback: callback}
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	p.read += int64(n)

	percent := 100
	if p.total > 0 {
		percent = int(p.read * 100 / p.total)
	}
	if percent > 100 {
		percent = 100
	}
	if percent >= 100 && err == nil {
		// Hold 100 for the final read so it fires exactly once, at EOF.
		percent = 99
	}

	if percent > p.last && !(percent == 100 && p.done) {
		p.last = percent
		if percent == 100 {
			p.done = true
		}
		p.callback(percent)
	}

	if err == io.EOF && !p.done {
		p.done = true
		p.last = 100
		p.callback(100)
	}

	return n, err
}
