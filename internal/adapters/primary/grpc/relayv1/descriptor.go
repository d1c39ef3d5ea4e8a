package relayv1

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
)

// File_relay_v1_relay_proto describes proto/relay/v1/relay.proto. It is
// registered globally so server reflection can serve it.
var File_relay_v1_relay_proto protoreflect.FileDescriptor

func scalar(name string, number int32, typ descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:   typ.Enum(),
	}
}

func nested(name string, number int32, typeName string) *descriptorpb.FieldDescriptorProto {
	field := scalar(name, number, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE)
	field.TypeName = proto.String(".relay.v1." + typeName)
	return field
}

func method(name, input, output string, serverStreaming bool) *descriptorpb.MethodDescriptorProto {
	return &descriptorpb.MethodDescriptorProto{
		Name:            proto.String(name),
		InputType:       proto.String(".relay.v1." + input),
		OutputType:      proto.String(".relay.v1." + output),
		ServerStreaming: proto.Bool(serverStreaming),
	}
}

func relayFile() *descriptorpb.FileDescriptorProto {
	messages := nested("messages", 1, "Message")
	messages.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()

	eventMessage := nested("message", 1, "Message")
	eventMessage.OneofIndex = proto.Int32(0)
	eventClosing := nested("server_closing", 2, "ServerClosing")
	eventClosing.OneofIndex = proto.Int32(0)

	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String("relay/v1/relay.proto"),
		Package: proto.String("relay.v1"),
		Syntax:  proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto.String("Message"),
				Field: []*descriptorpb.FieldDescriptorProto{
					scalar("id", 1, descriptorpb.FieldDescriptorProto_TYPE_UINT64),
					scalar("text", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
					scalar("user", 3, descriptorpb.FieldDescriptorProto_TYPE_STRING),
					scalar("timestamp_unix_nano", 4, descriptorpb.FieldDescriptorProto_TYPE_INT64),
				},
			},
			{
				Name: proto.String("PublishRequest"),
				Field: []*descriptorpb.FieldDescriptorProto{
					scalar("text", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
					scalar("user", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				},
			},
			{
				Name:  proto.String("PublishResponse"),
				Field: []*descriptorpb.FieldDescriptorProto{nested("message", 1, "Message")},
			},
			{
				Name:  proto.String("HistoryRequest"),
				Field: []*descriptorpb.FieldDescriptorProto{scalar("after_id", 1, descriptorpb.FieldDescriptorProto_TYPE_UINT64)},
			},
			{
				Name:  proto.String("HistoryResponse"),
				Field: []*descriptorpb.FieldDescriptorProto{messages},
			},
			{
				Name:  proto.String("SubscribeRequest"),
				Field: []*descriptorpb.FieldDescriptorProto{scalar("after_id", 1, descriptorpb.FieldDescriptorProto_TYPE_UINT64)},
			},
			{
				Name:  proto.String("ServerClosing"),
				Field: []*descriptorpb.FieldDescriptorProto{scalar("message", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING)},
			},
			{
				Name:      proto.String("ServerEvent"),
				Field:     []*descriptorpb.FieldDescriptorProto{eventMessage, eventClosing},
				OneofDecl: []*descriptorpb.OneofDescriptorProto{{Name: proto.String("event")}},
			},
		},
		Service: []*descriptorpb.ServiceDescriptorProto{
			{
				Name: proto.String("RelayService"),
				Method: []*descriptorpb.MethodDescriptorProto{
					method("Publish", "PublishRequest", "PublishResponse", false),
					method("History", "HistoryRequest", "HistoryResponse", false),
					method("Subscribe", "SubscribeRequest", "ServerEvent", true),
				},
			},
		},
	}
}

func init() {
	file, err := protodesc.NewFile(relayFile(), protoregistry.GlobalFiles)
	if err != nil {
		panic(err)
	}
	if err := protoregistry.GlobalFiles.RegisterFile(file); err != nil {
		panic(err)
	}
	File_relay_v1_relay_proto = file
}
