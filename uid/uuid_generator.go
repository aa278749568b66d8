package uid

import (
	"encoding/hex"

	"github.com/google/uuid"
)

type UUIDOptions struct {
	Version     string `cfg:"version" def:"v4" validate:"omitempty,oneof=v1 v4 v6 v7"`
	WithHyphens bool   `cfg:"withHyphens" def:"true"`
}

type UUIDGenerator struct {
	version     string
	withHyphens bool
}

func NewUUIDGeneratorWithOptions(options *UUIDOptions) *UUIDGenerator {
	if options == nil {
		options = &UUIDOptions{Version: "v4", WithHyphens: true}
	}
	version := options.Version
	if version == "" {
		version = "v4"
	}

	return &UUIDGenerator{
		version:     version,
		withHyphens: options.WithHyphens,
	}
}

func (g *UUIDGenerator) Generate() string {
	var u uuid.UUID
	switch g.version {
	case "v1":
		u = uuid.Must(uuid.NewUUID())
	case "v6":
		u = uuid.Must(uuid.NewV6())
	case "v7":
		u = uuid.Must(uuid.NewV7())
	default:
		u = uuid.New()
	}

	if g.withHyphens {
		return u.String()
	}
	return hex.EncodeToString(u[:])
}
