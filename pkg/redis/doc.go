// Package redis connects to the Redis server that holds shared fallback
// chains.
//
// Connect retries the first ping according to Config, which is usually
// parsed from the environment:
//
//	var cfg redis.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//	if cfg.Enabled() {
//		client, err := redis.Connect(ctx, cfg)
//		if err != nil {
//			return err
//		}
//		defer client.Close()
//	}
//
// Healthcheck adapts the client to a readiness probe. Errors wrap the
// go-redis error with errors.Join, so errors.Is works on both.
package redis
