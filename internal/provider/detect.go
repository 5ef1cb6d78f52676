package provider

import (
	"context"

	"github.com/Mohsinsiddi/nftmint/internal/config"
	"github.com/Mohsinsiddi/nftmint/internal/wallet"
	"go.uber.org/zap"
)

// Deps are the collaborators Detect may hand to a provider.
type Deps struct {
	Config   *config.Config
	Wallets  *wallet.Manager
	Grants   *wallet.Grants
	Approver Approver
	// Wallet overrides the default keystore wallet.
	Wallet string
	// Dial overrides how chain backends are opened.
	Dial DialFunc
	Log  *zap.Logger
}

// Detect returns the configured wallet provider, or nil when none is
// present: no keystore account registered, or the wallet endpoint does not
// answer.
func Detect(ctx context.Context, d Deps) WalletProvider {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	switch d.Config.Provider {
	case config.ProviderRPC:
		p, err := DialRPC(ctx, d.Config.WalletRPCURL, d.Config.RPCURL)
		if err != nil {
			log.Info("wallet provider not detected", zap.String("provider", NameRPC), zap.Error(err))
			return nil
		}
		if d.Dial != nil {
			p.dial = d.Dial
		}
		return p

	default:
		var opts []KeystoreOption
		if d.Dial != nil {
			opts = append(opts, WithDial(d.Dial))
		}
		if d.Wallet != "" {
			opts = append(opts, WithPreferredWallet(d.Wallet))
		} else if d.Config.DefaultWallet != "" {
			opts = append(opts, WithPreferredWallet(d.Config.DefaultWallet))
		}
		k := NewKeystore(d.Wallets, d.Grants, d.Approver, d.Config.RPCURL, opts...)
		if !k.Available() {
			log.Info("wallet provider not detected", zap.String("provider", NameKeystore), zap.String("reason", "no wallets registered"))
			return nil
		}
		return k
	}
}
