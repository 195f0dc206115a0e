// Package connection implements the Listener and Connection Handler components.
//
// The server:
//   - Accepts TCP connections and caps how many run concurrently
//   - Runs one handler goroutine per connection: read, dispatch, write
//   - Applies an idle read deadline so dead clients release their slot
//   - Destroys any sessions a connection created when it goes away
//
// A request that fails to parse gets a 400 response and the loop continues;
// only genuine I/O errors end a connection.
package connection
