package proxy

import (
	"context"
	"reflect"

	"go.opencensus.io/tag"

	"github.com/filecoin-project/shardproof/api"
	"github.com/filecoin-project/shardproof/api/apistruct"
	"github.com/filecoin-project/shardproof/metrics"
)

// MetricedShardProofAPI records the duration of every call to a under the
// method name.
func MetricedShardProofAPI(a api.ShardProof) api.ShardProof {
	var out apistruct.ShardProofStruct
	proxy(a, &out.Internal)
	return &out
}

func proxy(in interface{}, internal interface{}) {
	rint := reflect.ValueOf(internal).Elem()
	ra := reflect.ValueOf(in)

	for f := 0; f < rint.NumField(); f++ {
		field := rint.Type().Field(f)
		fn := ra.MethodByName(field.Name)

		rint.Field(f).Set(reflect.MakeFunc(field.Type, func(args []reflect.Value) (results []reflect.Value) {
			ctx := args[0].Interface().(context.Context)
			// upsert function name into context
			ctx, _ = tag.New(ctx,
				tag.Upsert(metrics.Endpoint, field.Name),
				tag.Upsert(metrics.APIInterface, "ShardProof"),
			)
			stop := metrics.Timer(ctx, metrics.APIRequestDuration)
			defer stop()
			// pass tagged ctx back into function call
			args[0] = reflect.ValueOf(ctx)
			return fn.Call(args)
		}))
	}
}
