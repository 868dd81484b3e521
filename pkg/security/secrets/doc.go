/*
Package secrets resolves ${secret:name} references in provider credentials.

A provider API key in the configuration may name a secret instead of holding
the key itself:

	providers:
	  primary:
	    api_key: ${secret:openai-api-key}

The resolver looks the name up in the environment first and then in the
secrets directory, if one is configured:

	resolver, err := secrets.NewResolver(cfg.Secrets, logger)
	if err != nil {
		return err
	}
	if err := resolver.ResolveProviders(ctx, &cfg.Providers); err != nil {
		return err
	}

# Environment Source

Names are upper-cased, hyphens become underscores and the configured prefix
is prepended, so "openai-api-key" is read from HELPDESK_SECRET_OPENAI_API_KEY.

# File Source

Each secret is a file named after it, as Kubernetes mounts them. Files must
be regular files with mode 0600 or 0400, and names cannot escape the
directory. Watch reports changes so rotated keys reach the providers without
a restart.

# Caching

Resolved values are cached for secrets.cache_ttl. Invalidate clears the cache
and is called automatically when the secrets directory changes.
*/
package secrets
