/*
Package tls serves the relay over HTTPS with certificates that can be renewed
without a restart.

# Server Configuration

NewServerConfig loads the certificate named in server.tls and returns a
crypto/tls configuration whose GetCertificate callback always serves the
latest certificate:

	tlsConfig, reloader, err := tls.NewServerConfig(cfg.Server.TLS, logger)
	if err != nil {
		return err
	}
	go reloader.Run(ctx)

	ln = cryptotls.NewListener(ln, tlsConfig)

# Certificate Reload

The reloader polls the certificate and key files every reload_interval and
swaps in the new pair once both parse. A renewal that fails to load keeps
the previous certificate in service.

Certificates within 30 days of expiry are logged as warnings at every load.
*/
package tls
