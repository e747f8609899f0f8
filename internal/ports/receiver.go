package ports

import "github.com/christocomm/homebridge-ecowitt/internal/domain"

// Receiver delivers inbound station pushes. Submissions are handed over one by one on out.
type Receiver interface {
	Start(out chan<- *domain.Submission) error
	Stop() error
}
