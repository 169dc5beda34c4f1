package main

import (
	"fmt"
	"io"
	"time"

	plog "github.com/phuslu/log"
	"github.com/sugawarayuuta/sonnet"
	"github.com/valyala/fasthttp"
)

// client talks to the HTTP interface of a chashd instance.
type client struct {
	host string
	http *fasthttp.Client
	log  plog.Logger
}

func newClient(host string, verbose bool) *client {
	l := plog.Logger{
		Level: plog.InfoLevel,
		Writer: &plog.ConsoleWriter{
			ColorOutput: true,
		},
	}
	if verbose {
		l.Level = plog.DebugLevel
	}
	return &client{
		host: host,
		http: &fasthttp.Client{
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		log: l,
	}
}

// do executes the request and returns
// the response status code and a copy of the response body.
func (c *client) do(method, path string, body []byte) (int, []byte, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI("http://" + c.host + path)
	req.Header.SetMethod(method)
	if body != nil {
		req.Header.SetContentType("application/json")
		req.SetBody(body)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Msg("requesting")

	if err := c.http.Do(req, resp); err != nil {
		return 0, nil, err
	}
	return resp.StatusCode(), append([]byte(nil), resp.Body()...), nil
}

func (c *client) get(w io.Writer, namespace, key string) {
	status, body, err := c.do(
		fasthttp.MethodGet, "/kv/"+namespace+"/"+key, nil,
	)
	if err != nil {
		fmt.Fprintf(w, "requesting %s: %s\n", c.host, err)
		return
	}
	switch status {
	case fasthttp.StatusOK:
		_, _ = w.Write(body)
		fmt.Fprintln(w)
	case fasthttp.StatusNotFound:
		fmt.Fprintln(w, "not found")
	default:
		fmt.Fprintf(w, "unexpected status code: %d\n", status)
	}
}

func (c *client) put(w io.Writer, namespace, key, value string) {
	body, err := sonnet.Marshal(struct {
		Value string `json:"value"`
	}{Value: value})
	if err != nil {
		fmt.Fprintf(w, "encoding request body: %s\n", err)
		return
	}
	status, _, err := c.do(
		fasthttp.MethodPut, "/kv/"+namespace+"/"+key, body,
	)
	if err != nil {
		fmt.Fprintf(w, "requesting %s: %s\n", c.host, err)
		return
	}
	switch status {
	case fasthttp.StatusCreated:
		fmt.Fprintln(w, "created")
	case fasthttp.StatusNoContent:
		fmt.Fprintln(w, "updated")
	case fasthttp.StatusNotFound:
		fmt.Fprintln(w, "not found")
	default:
		fmt.Fprintf(w, "unexpected status code: %d\n", status)
	}
}

func (c *client) flush(w io.Writer, namespace string) {
	status, body, err := c.do(
		fasthttp.MethodPost, "/flush/"+namespace, nil,
	)
	if err != nil {
		fmt.Fprintf(w, "requesting %s: %s\n", c.host, err)
		return
	}
	switch status {
	case fasthttp.StatusOK:
		var report struct {
			Namespace string `json:"namespace"`
			Released  int    `json:"released"`
		}
		if err := sonnet.Unmarshal(body, &report); err != nil {
			fmt.Fprintf(w, "decoding response: %s\n", err)
			return
		}
		fmt.Fprintf(
			w, "flushed %s, released %d entries\n",
			report.Namespace, report.Released,
		)
	case fasthttp.StatusNotFound:
		fmt.Fprintln(w, "not found")
	default:
		fmt.Fprintf(w, "unexpected status code: %d\n", status)
	}
}

func (c *client) stats(w io.Writer) {
	status, body, err := c.do(fasthttp.MethodGet, "/stats", nil)
	if err != nil {
		fmt.Fprintf(w, "requesting %s: %s\n", c.host, err)
		return
	}
	if status != fasthttp.StatusOK {
		fmt.Fprintf(w, "unexpected status code: %d\n", status)
		return
	}

	var r struct {
		Started               string `json:"started"`
		Uptime                string `json:"uptime"`
		HandledRequests       int64  `json:"handledRequests"`
		Received              string `json:"received"`
		Sent                  string `json:"sent"`
		AverageProcessingTime string `json:"averageProcessingTime"`
		HighestProcessingTime string `json:"highestProcessingTime"`
		Namespaces            []struct {
			ID              string `json:"id"`
			Entries         int    `json:"entries"`
			Stored          string `json:"stored"`
			Reads           int64  `json:"reads"`
			Hits            int64  `json:"hits"`
			Misses          int64  `json:"misses"`
			Writes          int64  `json:"writes"`
			Insertions      int64  `json:"insertions"`
			Flushes         int64  `json:"flushes"`
			EntriesReleased int64  `json:"entriesReleased"`
		} `json:"namespaces"`
	}
	if err := sonnet.Unmarshal(body, &r); err != nil {
		fmt.Fprintf(w, "decoding response: %s\n", err)
		return
	}

	fmt.Fprintf(w, "server %s\n", c.host)
	fmt.Fprintf(w, " started: %s (%s)\n", r.Started, r.Uptime)
	fmt.Fprintf(w, " handled requests: %d\n", r.HandledRequests)
	fmt.Fprintf(w, " received: %s\n", r.Received)
	fmt.Fprintf(w, " sent: %s\n", r.Sent)
	fmt.Fprintf(w, " average processing time: %s\n", r.AverageProcessingTime)
	fmt.Fprintf(w, " highest processing time: %s\n", r.HighestProcessingTime)
	fmt.Fprintf(w, "namespaces: %d\n", len(r.Namespaces))
	for _, n := range r.Namespaces {
		fmt.Fprintf(w, " %s:\n", n.ID)
		fmt.Fprintf(w, "  entries: %d (%s)\n", n.Entries, n.Stored)
		fmt.Fprintf(
			w, "  reads: %d (%d hits, %d misses)\n",
			n.Reads, n.Hits, n.Misses,
		)
		fmt.Fprintf(
			w, "  writes: %d (%d insertions)\n",
			n.Writes, n.Insertions,
		)
		fmt.Fprintf(
			w, "  flushes: %d (%d entries released)\n",
			n.Flushes, n.EntriesReleased,
		)
	}
}
