package schema

import (
	"slices"

	"credvault/internal/model"
)

func field(id, key, label string, typ model.FieldType, masked, required bool) model.ServiceField {
	return model.ServiceField{
		ID:       id,
		Key:      key,
		Label:    label,
		Type:     typ,
		Masked:   masked,
		Required: required,
	}
}

// Defaults returns the built-in library offered when a vault is created.
func Defaults() []model.ServiceType {
	return []model.ServiceType{
		{
			ID:   "discord",
			Name: "Discord",
			Icon: "MessageSquare",
			Fields: []model.ServiceField{
				field("d-1", "username", "Username", model.FieldText, false, true),
				field("d-2", "email", "Email", model.FieldText, false, true),
				field("d-3", "password", "Password", model.FieldSecret, true, true),
				field("d-6", "auth_token", "Auth Token", model.FieldTextarea, true, false),
				field("d-7", "2fa_key", "2FA Key", model.FieldTwoFactor, true, false),
				field("d-8", "backup_codes", "Backup Codes", model.FieldTextarea, true, false),
			},
		},
		{
			ID:   "twitter-x",
			Name: "Twitter (X)",
			Icon: "Twitter",
			Fields: []model.ServiceField{
				field("t-1", "display_name", "Name", model.FieldText, false, true),
				field("t-2", "email", "Email", model.FieldText, false, true),
				field("t-3", "password", "Password", model.FieldSecret, true, true),
				field("t-6", "auth_token", "Auth Token", model.FieldTextarea, true, false),
				field("t-7", "2fa_key", "2FA Key", model.FieldTwoFactor, true, false),
				field("t-8", "backup_codes", "Backup Codes", model.FieldTextarea, true, false),
			},
		},
		{
			ID:   "email",
			Name: "Email",
			Icon: "Mail",
			Fields: []model.ServiceField{
				field("g-1", "display_name", "Name", model.FieldText, false, false),
				field("g-2", "email", "Email", model.FieldText, false, true),
				field("g-3", "password", "Password", model.FieldSecret, true, true),
				field("g-4", "recovery_email", "Recovery Email", model.FieldText, false, false),
				field("g-5", "recovery_email_access_url", "Recovery Email Access URL", model.FieldURL, false, false),
				field("g-6", "recovery_email_access_password", "Recovery Email Access Password", model.FieldSecret, true, false),
				field("g-7", "2fa_key", "2FA Key", model.FieldTwoFactor, true, false),
			},
		},
		{
			ID:   "proxy",
			Name: "Proxy",
			Icon: "Globe",
			Fields: []model.ServiceField{
				field("p-1", "proxy_string", "Proxy String", model.FieldSecret, true, true),
			},
		},
		{
			ID:   "evm-wallet",
			Name: "EVM Wallet",
			Icon: "Wallet",
			Fields: []model.ServiceField{
				field("evm-1", "address", "Address", model.FieldText, false, true),
				field("evm-2", "seed_phrase", "Seed Phrase", model.FieldTextarea, true, false),
				field("evm-3", "private_key", "Private Key", model.FieldTextarea, true, false),
			},
		},
		{
			ID:   "solana-wallet",
			Name: "Solana Wallet",
			Icon: "WalletCards",
			Fields: []model.ServiceField{
				field("sol-1", "address", "Address", model.FieldText, false, true),
				field("sol-2", "seed_phrase", "Seed Phrase", model.FieldTextarea, true, false),
				field("sol-3", "private_key", "Private Key", model.FieldTextarea, true, false),
			},
		},
	}
}

// SelectDefaults keeps the default types whose id is listed, in library order.
func SelectDefaults(ids []string) []model.ServiceType {
	all := Defaults()
	out := make([]model.ServiceType, 0, len(ids))
	for _, st := range all {
		if slices.Contains(ids, st.ID) {
			out = append(out, st)
		}
	}
	return out
}
