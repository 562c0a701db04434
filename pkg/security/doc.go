/*
Package security provides transport security for Mercator Hermes.

# TLS Configuration

Build a server TLS configuration from the gateway config:

	tlsConfig, err := tls.BuildServerConfig(ctx, &cfg.Server.TLS)
	if err != nil {
		log.Fatal(err)
	}
	if tlsConfig != nil {
		server.TLSConfig = tlsConfig
	}

A nil result means TLS is disabled and the server should listen in
plaintext. When a reload interval is configured, certificates are
re-read from disk without restarting the listener.
*/
package security
