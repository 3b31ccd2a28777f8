package nats

import (
	"github.com/zhulik/pal"

	"amiverse/internal/core"
)

func Provide() []pal.ServiceImpl {
	return []pal.ServiceImpl{
		pal.Provide[core.Publisher, Client](),
	}
}
