package bookingpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "booking.v1.BookingService"

// FullMethod returns the gRPC path of a BookingService method.
func FullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

type BookingServiceServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	Refresh(context.Context, *RefreshRequest) (*RefreshResponse, error)
	Logout(context.Context, *LogoutRequest) (*LogoutResponse, error)
	GetUserInfo(context.Context, *GetUserInfoRequest) (*GetUserInfoResponse, error)
	IsAdmin(context.Context, *IsAdminRequest) (*IsAdminResponse, error)
	ListAvailableSlots(context.Context, *ListAvailableSlotsRequest) (*ListAvailableSlotsResponse, error)
	ListMySlots(context.Context, *ListMySlotsRequest) (*ListMySlotsResponse, error)
	CreateNewBooking(context.Context, *CreateNewBookingRequest) (*CreateNewBookingResponse, error)
	JoinExistingBooking(context.Context, *JoinExistingBookingRequest) (*JoinExistingBookingResponse, error)
	CancelBooking(context.Context, *CancelBookingRequest) (*CancelBookingResponse, error)
	ListAllSlots(context.Context, *ListAllSlotsRequest) (*ListAllSlotsResponse, error)
	AddSlot(context.Context, *AddSlotRequest) (*AddSlotResponse, error)
	RemoveSlot(context.Context, *RemoveSlotRequest) (*RemoveSlotResponse, error)
}

// UnimplementedBookingServiceServer answers every method with Unimplemented.
type UnimplementedBookingServiceServer struct{}

func unimplemented(name string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", name)
}

func (UnimplementedBookingServiceServer) Register(context.Context, *RegisterRequest) (*RegisterResponse, error) {
	return nil, unimplemented("Register")
}
func (UnimplementedBookingServiceServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, unimplemented("Login")
}
func (UnimplementedBookingServiceServer) Refresh(context.Context, *RefreshRequest) (*RefreshResponse, error) {
	return nil, unimplemented("Refresh")
}
func (UnimplementedBookingServiceServer) Logout(context.Context, *LogoutRequest) (*LogoutResponse, error) {
	return nil, unimplemented("Logout")
}
func (UnimplementedBookingServiceServer) GetUserInfo(context.Context, *GetUserInfoRequest) (*GetUserInfoResponse, error) {
	return nil, unimplemented("GetUserInfo")
}
func (UnimplementedBookingServiceServer) IsAdmin(context.Context, *IsAdminRequest) (*IsAdminResponse, error) {
	return nil, unimplemented("IsAdmin")
}
func (UnimplementedBookingServiceServer) ListAvailableSlots(context.Context, *ListAvailableSlotsRequest) (*ListAvailableSlotsResponse, error) {
	return nil, unimplemented("ListAvailableSlots")
}
func (UnimplementedBookingServiceServer) ListMySlots(context.Context, *ListMySlotsRequest) (*ListMySlotsResponse, error) {
	return nil, unimplemented("ListMySlots")
}
func (UnimplementedBookingServiceServer) CreateNewBooking(context.Context, *CreateNewBookingRequest) (*CreateNewBookingResponse, error) {
	return nil, unimplemented("CreateNewBooking")
}
func (UnimplementedBookingServiceServer) JoinExistingBooking(context.Context, *JoinExistingBookingRequest) (*JoinExistingBookingResponse, error) {
	return nil, unimplemented("JoinExistingBooking")
}
func (UnimplementedBookingServiceServer) CancelBooking(context.Context, *CancelBookingRequest) (*CancelBookingResponse, error) {
	return nil, unimplemented("CancelBooking")
}
func (UnimplementedBookingServiceServer) ListAllSlots(context.Context, *ListAllSlotsRequest) (*ListAllSlotsResponse, error) {
	return nil, unimplemented("ListAllSlots")
}
func (UnimplementedBookingServiceServer) AddSlot(context.Context, *AddSlotRequest) (*AddSlotResponse, error) {
	return nil, unimplemented("AddSlot")
}
func (UnimplementedBookingServiceServer) RemoveSlot(context.Context, *RemoveSlotRequest) (*RemoveSlotResponse, error) {
	return nil, unimplemented("RemoveSlot")
}

func RegisterBookingServiceServer(s grpc.ServiceRegistrar, srv BookingServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// unary builds the MethodDesc for one request/response method, decoding the
// request and running it through the server's interceptor chain.
func unary[Req any, PReq interface {
	*Req
	Message
}, Resp any](name string, call func(BookingServiceServer, context.Context, PReq) (Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := PReq(new(Req))
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(BookingServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(BookingServiceServer), ctx, req.(PReq))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BookingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Register", BookingServiceServer.Register),
		unary("Login", BookingServiceServer.Login),
		unary("Refresh", BookingServiceServer.Refresh),
		unary("Logout", BookingServiceServer.Logout),
		unary("GetUserInfo", BookingServiceServer.GetUserInfo),
		unary("IsAdmin", BookingServiceServer.IsAdmin),
		unary("ListAvailableSlots", BookingServiceServer.ListAvailableSlots),
		unary("ListMySlots", BookingServiceServer.ListMySlots),
		unary("CreateNewBooking", BookingServiceServer.CreateNewBooking),
		unary("JoinExistingBooking", BookingServiceServer.JoinExistingBooking),
		unary("CancelBooking", BookingServiceServer.CancelBooking),
		unary("ListAllSlots", BookingServiceServer.ListAllSlots),
		unary("AddSlot", BookingServiceServer.AddSlot),
		unary("RemoveSlot", BookingServiceServer.RemoveSlot),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "booking/v1/booking.proto",
}

// Client calls BookingService over any grpc connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Resp any, PResp interface {
	*Resp
	Message
}](ctx context.Context, cc grpc.ClientConnInterface, name string, in Message, opts []grpc.CallOption) (PResp, error) {
	out := PResp(new(Resp))
	if err := cc.Invoke(ctx, FullMethod(name), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c.cc, "Register", in, opts)
}
func (c *Client) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, "Login", in, opts)
}
func (c *Client) Refresh(ctx context.Context, in *RefreshRequest, opts ...grpc.CallOption) (*RefreshResponse, error) {
	return invoke[RefreshResponse](ctx, c.cc, "Refresh", in, opts)
}
func (c *Client) Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*LogoutResponse, error) {
	return invoke[LogoutResponse](ctx, c.cc, "Logout", in, opts)
}
func (c *Client) GetUserInfo(ctx context.Context, in *GetUserInfoRequest, opts ...grpc.CallOption) (*GetUserInfoResponse, error) {
	return invoke[GetUserInfoResponse](ctx, c.cc, "GetUserInfo", in, opts)
}
func (c *Client) IsAdmin(ctx context.Context, in *IsAdminRequest, opts ...grpc.CallOption) (*IsAdminResponse, error) {
	return invoke[IsAdminResponse](ctx, c.cc, "IsAdmin", in, opts)
}
func (c *Client) ListAvailableSlots(ctx context.Context, in *ListAvailableSlotsRequest, opts ...grpc.CallOption) (*ListAvailableSlotsResponse, error) {
	return invoke[ListAvailableSlotsResponse](ctx, c.cc, "ListAvailableSlots", in, opts)
}
func (c *Client) ListMySlots(ctx context.Context, in *ListMySlotsRequest, opts ...grpc.CallOption) (*ListMySlotsResponse, error) {
	return invoke[ListMySlotsResponse](ctx, c.cc, "ListMySlots", in, opts)
}
func (c *Client) CreateNewBooking(ctx context.Context, in *CreateNewBookingRequest, opts ...grpc.CallOption) (*CreateNewBookingResponse, error) {
	return invoke[CreateNewBookingResponse](ctx, c.cc, "CreateNewBooking", in, opts)
}
func (c *Client) JoinExistingBooking(ctx context.Context, in *JoinExistingBookingRequest, opts ...grpc.CallOption) (*JoinExistingBookingResponse, error) {
	return invoke[JoinExistingBookingResponse](ctx, c.cc, "JoinExistingBooking", in, opts)
}
func (c *Client) CancelBooking(ctx context.Context, in *CancelBookingRequest, opts ...grpc.CallOption) (*CancelBookingResponse, error) {
	return invoke[CancelBookingResponse](ctx, c.cc, "CancelBooking", in, opts)
}
func (c *Client) ListAllSlots(ctx context.Context, in *ListAllSlotsRequest, opts ...grpc.CallOption) (*ListAllSlotsResponse, error) {
	return invoke[ListAllSlotsResponse](ctx, c.cc, "ListAllSlots", in, opts)
}
func (c *Client) AddSlot(ctx context.Context, in *AddSlotRequest, opts ...grpc.CallOption) (*AddSlotResponse, error) {
	return invoke[AddSlotResponse](ctx, c.cc, "AddSlot", in, opts)
}
func (c *Client) RemoveSlot(ctx context.Context, in *RemoveSlotRequest, opts ...grpc.CallOption) (*RemoveSlotResponse, error) {
	return invoke[RemoveSlotResponse](ctx, c.cc, "RemoveSlot", in, opts)
}
