package cmd

import (
	"log/slog"

	"github.com/dukex/leadflow/pkg/actions/createcampaign"
	"github.com/dukex/leadflow/pkg/actions/createtask"
	"github.com/dukex/leadflow/pkg/actions/custom"
	"github.com/dukex/leadflow/pkg/actions/postsocial"
	"github.com/dukex/leadflow/pkg/actions/segment"
	"github.com/dukex/leadflow/pkg/actions/sendemail"
	"github.com/dukex/leadflow/pkg/actions/sendsms"
	"github.com/dukex/leadflow/pkg/actions/sendwebhook"
	"github.com/dukex/leadflow/pkg/actions/updatelead"
	"github.com/dukex/leadflow/pkg/capabilities/memory"
	"github.com/dukex/leadflow/pkg/capabilities/webhook"
	"github.com/dukex/leadflow/pkg/protocol"
	"github.com/dukex/leadflow/pkg/registry"
)

// NewRegistry builds the action registry with every native action type wired
// to its capability provider.
func NewRegistry(logger *slog.Logger, capabilities protocol.Capabilities) *registry.Registry {
	reg := registry.NewRegistry(logger)

	reg.RegisterAction(sendemail.NewFactory(capabilities.Email))
	reg.RegisterAction(sendsms.NewFactory(capabilities.SMS))
	reg.RegisterAction(createtask.NewFactory(capabilities.Tasks))
	reg.RegisterAction(updatelead.NewFactory(capabilities.Leads))
	reg.RegisterAction(segment.NewAddFactory(capabilities.Segments))
	reg.RegisterAction(segment.NewRemoveFactory(capabilities.Segments))
	reg.RegisterAction(postsocial.NewFactory(capabilities.Social))
	reg.RegisterAction(createcampaign.NewFactory(capabilities.Campaign))
	reg.RegisterAction(sendwebhook.NewFactory(capabilities.Webhooks))
	reg.RegisterAction(custom.NewFactory())

	return reg
}

// NewCapabilities builds the default provider set: webhooks go over HTTP,
// everything else is served by the recording in-process provider until real
// gateways are wired in.
func NewCapabilities() protocol.Capabilities {
	provider := memory.NewProvider()

	return protocol.Capabilities{
		Email:    provider,
		SMS:      provider,
		Tasks:    provider,
		Leads:    provider,
		Segments: provider,
		Social:   provider,
		Campaign: provider,
		Webhooks: webhook.NewCaller(),
	}
}
