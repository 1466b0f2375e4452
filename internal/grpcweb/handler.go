// Package grpcweb serves gRPC-Web (browser HTTP/1.1) calls by dispatching
// them in-process to the BookingService implementation.
package grpcweb

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"appointment-booking-api/internal/bookingpb"
)

const (
	frameHeaderLen = 5
	trailerFlag    = 0x80
	maxBodyBytes   = 1 << 20
)

// forwarded request headers, lower-cased as grpc metadata keys
var forwardHeaders = []string{"authorization", "x-request-id"}

// Bridge runs gRPC-Web requests through the same method table and
// interceptor chain as the native gRPC server.
type Bridge struct {
	srv         bookingpb.BookingServiceServer
	methods     map[string]grpc.MethodDesc
	interceptor grpc.UnaryServerInterceptor
}

func New(srv bookingpb.BookingServiceServer, interceptors ...grpc.UnaryServerInterceptor) *Bridge {
	methods := make(map[string]grpc.MethodDesc, len(bookingpb.ServiceDesc.Methods))
	for _, m := range bookingpb.ServiceDesc.Methods {
		methods[m.MethodName] = m
	}
	return &Bridge{srv: srv, methods: methods, interceptor: chain(interceptors)}
}

// Handler returns an http.Handler for POST /booking.v1.BookingService/<Method>.
func (b *Bridge) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/grpc-web") {
			http.Error(w, "not grpc-web", http.StatusUnsupportedMediaType)
			return
		}
		b.serve(w, r)
	})
}

func (b *Bridge) serve(w http.ResponseWriter, r *http.Request) {
	name, ok := strings.CutPrefix(r.URL.Path, "/"+bookingpb.ServiceName+"/")
	desc, found := b.methods[name]
	if !ok || !found {
		writeError(w, codes.Unimplemented, fmt.Sprintf("unknown method %s", r.URL.Path))
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, codes.InvalidArgument, "read body failed")
		return
	}
	payload, err := readFrame(body)
	if err != nil {
		writeError(w, codes.InvalidArgument, err.Error())
		return
	}

	ctx := incoming(r)
	dec := func(v any) error {
		if err := (bookingpb.Codec{}).Unmarshal(payload, v); err != nil {
			return status.Errorf(codes.InvalidArgument, "decode request: %v", err)
		}
		return nil
	}

	resp, err := desc.Handler(b.srv, ctx, dec, b.interceptor)
	if err != nil {
		st := status.Convert(err)
		if st.Code() == codes.Internal || st.Code() == codes.Unknown {
			slog.ErrorContext(ctx, "grpc-web call failed", "path", r.URL.Path, "code", st.Code().String(), "error", st.Message())
		}
		writeError(w, st.Code(), st.Message())
		return
	}

	out, err := (bookingpb.Codec{}).Marshal(resp)
	if err != nil {
		slog.ErrorContext(ctx, "grpc-web encode response", "path", r.URL.Path, "error", err)
		writeError(w, codes.Internal, "internal error")
		return
	}
	writeSuccess(w, out)
}

// incoming builds the server-side context a native call would carry: the
// forwarded headers as metadata and the HTTP client as peer.
func incoming(r *http.Request) context.Context {
	md := metadata.MD{}
	for _, h := range forwardHeaders {
		if vals := r.Header.Values(h); len(vals) > 0 {
			md.Set(h, vals...)
		}
	}
	ctx := metadata.NewIncomingContext(r.Context(), md)
	if addr := remoteAddr(r.RemoteAddr); addr != nil {
		ctx = peer.NewContext(ctx, &peer.Peer{Addr: addr})
	}
	return ctx
}

// remoteAddr accepts "ip:port" as well as the bare IP left by
// handlers.ProxyHeaders.
func remoteAddr(s string) net.Addr {
	if ap, err := netip.ParseAddrPort(s); err == nil {
		return net.TCPAddrFromAddrPort(ap)
	}
	if ip, err := netip.ParseAddr(s); err == nil {
		return net.TCPAddrFromAddrPort(netip.AddrPortFrom(ip, 0))
	}
	return nil
}

// grpc-web frame: 1-byte flag + 4-byte big-endian length + protobuf
func readFrame(body []byte) ([]byte, error) {
	if len(body) < frameHeaderLen {
		return nil, fmt.Errorf("body too short")
	}
	if body[0]&trailerFlag != 0 {
		return nil, fmt.Errorf("unexpected trailer frame")
	}
	msgLen := binary.BigEndian.Uint32(body[1:frameHeaderLen])
	if uint64(msgLen)+frameHeaderLen > uint64(len(body)) {
		return nil, fmt.Errorf("incomplete frame")
	}
	return body[frameHeaderLen : frameHeaderLen+msgLen], nil
}

// chain folds interceptors so the first one is outermost, as
// grpc.ChainUnaryInterceptor does for the native server.
func chain(interceptors []grpc.UnaryServerInterceptor) grpc.UnaryServerInterceptor {
	if len(interceptors) == 0 {
		return nil
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		next := handler
		for i := len(interceptors) - 1; i >= 0; i-- {
			icpt, inner := interceptors[i], next
			next = func(ctx context.Context, req any) (any, error) {
				return icpt(ctx, req, info, inner)
			}
		}
		return next(ctx, req)
	}
}

func frame(flag byte, data []byte) []byte {
	f := make([]byte, frameHeaderLen+len(data))
	f[0] = flag
	binary.BigEndian.PutUint32(f[1:frameHeaderLen], uint32(len(data)))
	copy(f[frameHeaderLen:], data)
	return f
}

func writeError(w http.ResponseWriter, code codes.Code, msg string) {
	w.Header().Set("Content-Type", "application/grpc-web+proto")
	w.WriteHeader(http.StatusOK)
	// messages may not carry raw CR/LF inside a trailer line
	msg = strings.NewReplacer("\r", " ", "\n", " ").Replace(msg)
	trailer := fmt.Sprintf("grpc-status:%d\r\ngrpc-message:%s\r\n", code, msg)
	_, _ = w.Write(frame(trailerFlag, []byte(trailer)))
}

func writeSuccess(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/grpc-web+proto")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(frame(0x00, data))
	_, _ = w.Write(frame(trailerFlag, []byte("grpc-status:0\r\n")))
}
