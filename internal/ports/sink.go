package ports

import "github.com/christocomm/homebridge-ecowitt/internal/domain"

type Sink interface {
	WriteBatch(readings []*domain.Reading) error
	Name() string
}
