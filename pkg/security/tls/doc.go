/*
Package tls provides TLS termination for the Mercator Hermes listener.

# Server Configuration

Build the listener TLS configuration from gateway settings:

	tlsConfig, err := tls.BuildServerConfig(ctx, &cfg.Security.TLS)
	if err != nil {
		log.Fatal(err)
	}
	if tlsConfig != nil {
		server.TLSConfig = tlsConfig
	}

# Certificate Auto-Reload

With a positive reload interval, renewed certificate files are picked up
without a restart:

	reloader := tls.NewCertificateReloader(certFile, keyFile, time.Minute)
	if err := reloader.Start(ctx); err != nil {
		log.Fatal(err)
	}

	tlsConfig.GetCertificate = reloader.GetCertificateFunc()
*/
package tls
