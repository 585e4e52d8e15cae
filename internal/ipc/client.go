package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to a running session.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *Client) call(method string, req any) (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call(ServiceName+"."+method, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Play starts or resumes playback.
func (c *Client) Play() (*StatusResponse, error) { return c.call("Play", CommandRequest{}) }

// Pause pauses playback.
func (c *Client) Pause() (*StatusResponse, error) { return c.call("Pause", CommandRequest{}) }

// Rewind jumps to the previous phrase.
func (c *Client) Rewind() (*StatusResponse, error) { return c.call("Rewind", CommandRequest{}) }

// Forward jumps to the next phrase.
func (c *Client) Forward() (*StatusResponse, error) { return c.call("Forward", CommandRequest{}) }

// SetVolume changes the playback volume.
func (c *Client) SetVolume(volume float64) (*StatusResponse, error) {
	return c.call("SetVolume", VolumeRequest{Volume: volume})
}

// Status retrieves the session state.
func (c *Client) Status() (*StatusResponse, error) { return c.call("Status", StatusRequest{}) }
