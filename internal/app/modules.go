package app

import (
	"github.com/vk/restflow/internal/registry"
	"github.com/vk/restflow/modules/echo"
	"github.com/vk/restflow/modules/events"
	"github.com/vk/restflow/modules/ident"
	"github.com/vk/restflow/modules/stamp"
	"github.com/vk/restflow/modules/webhook"
)

// coreModules is the definitive list of all callback modules that are
// compiled into the restflow binary.
var coreModules = []registry.Module{
	&echo.Module{},
	&events.Module{},
	&ident.Module{},
	&stamp.Module{},
	&webhook.Module{},
}
