/*
Package resilience provides a circuit breaker for remote dependencies.

A breaker does not retry. It counts consecutive failures of calls made
through Do and, past a threshold, rejects further calls immediately with
ErrCircuitOpen until a cooldown elapses. After the cooldown a limited number
of probe calls decide whether the circuit closes again.

# Usage

	breaker := resilience.New(resilience.Settings{
		Name:      "users-dynamodb",
		TripAfter: 5,
		Cooldown:  30 * time.Second,
		IsFailure: func(err error) bool { return !errors.Is(err, users.ErrNotFound) },
	})

	err := breaker.Do(ctx, func(ctx context.Context) error {
		_, err := client.GetItem(ctx, input)
		return err
	})

# States

	Closed --[TripAfter failures]-> Open --[Cooldown]-> HalfOpen --[MaxProbes successes]-> Closed
	                                                       |
	                                                   [failure]
	                                                       v
	                                                     Open
*/
package resilience
