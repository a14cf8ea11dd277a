package app

import (
	"github.com/vk/taskgridgo/internal/registry"
	"github.com/vk/taskgridgo/modules/env_vars"
	"github.com/vk/taskgridgo/modules/execcmd"
	"github.com/vk/taskgridgo/modules/http_request"
	"github.com/vk/taskgridgo/modules/print"
)

// coreModules is the definitive list of all runner modules that are compiled
// into the taskgridgo binary.
var coreModules = []registry.Module{
	&env_vars.Module{},
	&execcmd.Module{},
	&http_request.Module{},
	&print.Module{},
}
