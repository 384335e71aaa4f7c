package node

import (
	"context"
	"net"
	"net/http"
	"time"

	"contrib.go.opencensus.io/exporter/prometheus"
	"github.com/gorilla/mux"
	"github.com/multiformats/go-multiaddr"
	manet "github.com/multiformats/go-multiaddr/net"
	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opencensus.io/stats/view"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/go-jsonrpc"

	"github.com/filecoin-project/shardproof/api"
	"github.com/filecoin-project/shardproof/metrics"
	"github.com/filecoin-project/shardproof/metrics/proxy"
)

// ShardProofHandler returns a shardproof http.Handler, to be mounted as-is on
// the server.
func ShardProofHandler(a api.ShardProof, opts ...jsonrpc.ServerOption) (http.Handler, error) {
	m := mux.NewRouter()

	rpcServer := jsonrpc.NewServer(append(opts, jsonrpc.WithServerErrors(api.RPCErrors))...)
	rpcServer.Register("ShardProof", proxy.MetricedShardProofAPI(a))
	m.Handle("/rpc/v0", rpcServer)

	exporter, err := MetricsExporter()
	if err != nil {
		return nil, err
	}
	m.Handle("/debug/metrics", exporter)
	m.PathPrefix("/").Handler(http.DefaultServeMux)

	return m, nil
}

// MetricsExporter registers the daemon views and returns a prometheus
// scrape handler for them.
func MetricsExporter() (http.Handler, error) {
	if err := view.Register(append(metrics.DefaultViews, metrics.ProvingViews...)...); err != nil {
		return nil, xerrors.Errorf("registering views: %w", err)
	}

	registry := promclient.DefaultRegisterer.(*promclient.Registry)
	exporter, err := prometheus.NewExporter(prometheus.Options{
		Registry:  registry,
		Namespace: "shardproof",
	})
	if err != nil {
		return nil, xerrors.Errorf("creating prometheus exporter: %w", err)
	}
	return exporter, nil
}

// ServeRPC serves an HTTP handler over the supplied listen multiaddr.
//
// This function spawns a goroutine to run the server, and returns immediately.
// It returns the stop function to be called to terminate the endpoint.
//
// The supplied ID is used in logging.
func ServeRPC(h http.Handler, id string, addr multiaddr.Multiaddr) (StopFunc, error) {
	// Start listening to the addr; if invalid or occupied, we will fail early.
	lst, err := manet.Listen(addr)
	if err != nil {
		return nil, xerrors.Errorf("could not listen: %w", err)
	}

	// Instantiate the server and start listening.
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 30 * time.Second,
		BaseContext: func(listener net.Listener) context.Context {
			return context.Background()
		},
	}

	go func() {
		err := srv.Serve(manet.NetListener(lst))
		if err != http.ErrServerClosed {
			log.Warnf("rpc server failed: %s", err)
		}
	}()

	log.Infow("serving rpc", "id", id, "addr", lst.Multiaddr())
	return srv.Shutdown, err
}
