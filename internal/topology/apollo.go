package topology

// apolloSigma is shared by every car keypoint.
const apolloSigma = 0.05

// ApolloCar returns the 66-keypoint vehicle part layout of ApolloCar3D.
// Prefixes name the part, c marks a corner.
func ApolloCar() Topology {
	t := Topology{
		Name: "apollocar",
		Keypoints: []string{
			"top_left_c_left_front_car_light",
			"bottom_left_c_left_front_car_light",
			"top_right_c_left_front_car_light",
			"bottom_right_c_left_front_car_light",
			"top_right_c_left_front_fog_light",
			"bottom_right_c_left_front_fog_light",
			"front_section_left_front_wheel",
			"center_left_front_wheel",
			"top_right_c_front_glass",
			"top_left_c_left_front_door",
			"bottom_left_c_left_front_door",
			"top_right_c_left_front_door",
			"middle_c_left_front_door",
			"front_c_car_handle_left_front_door",
			"rear_c_car_handle_left_front_door",
			"bottom_right_c_left_front_door",
			"top_right_c_left_rear_door",
			"front_c_car_handle_left_rear_door",
			"rear_c_car_handle_left_rear_door",
			"bottom_right_c_left_rear_door",
			"center_left_rear_wheel",
			"rear_section_left_rear_wheel",
			"top_left_c_left_rear_car_light",
			"bottom_left_c_left_rear_car_light",
			"top_left_c_rear_glass",
			"top_right_c_left_rear_car_light",
			"bottom_right_c_left_rear_car_light",
			"bottom_left_c_trunk",
			"left_c_rear_bumper",
			"right_c_rear_bumper",
			"bottom_right_c_trunk",
			"bottom_left_c_right_rear_car_light",
			"top_left_c_right_rear_car_light",
			"top_right_c_rear_glass",
			"bottom_right_c_right_rear_car_light",
			"top_right_c_right_rear_car_light",
			"rear_section_right_rear_wheel",
			"center_right_rear_wheel",
			"bottom_left_c_right_rear_car_door",
			"rear_c_car_handle_right_rear_car_door",
			"front_c_car_handle_right_rear_car_door",
			"top_left_c_right_rear_car_door",
			"bottom_left_c_right_front_car_door",
			"rear_c_car_handle_right_front_car_door",
			"front_c_car_handle_right_front_car_door",
			"middle_c_right_front_car_door",
			"top_left_c_right_front_car_door",
			"bottom_right_c_right_front_car_door",
			"top_right_c_right_front_car_door",
			"top_left_c_front_glass",
			"center_right_front_wheel",
			"front_section_right_front_wheel",
			"bottom_left_c_right_fog_light",
			"top_left_c_right_fog_light",
			"bottom_left_c_right_front_car_light",
			"top_left_c_right_front_car_light",
			"bottom_right_c_right_front_car_light",
			"top_right_c_right_front_car_light",
			"top_right_c_front_lplate",
			"top_left_c_front_lplate",
			"bottom_right_c_front_lplate",
			"bottom_left_c_front_lplate",
			"top_left_c_rear_lplate",
			"top_right_c_rear_lplate",
			"bottom_right_c_rear_lplate",
			"bottom_left_c_rear_lplate",
		},
		Skeleton: []Edge{
			{50, 47}, {50, 9}, {50, 58}, {9, 1}, {9, 12}, {58, 1}, {58, 53},
			{1, 6}, {53, 6}, {6, 8}, {8, 21}, {12, 24}, {21, 24}, {24, 26},
			{35, 33}, {10, 12}, {10, 8}, {10, 21}, {8, 1}, {10, 1}, {10, 9},
			{25, 34}, {25, 26}, {25, 12}, {26, 33}, {26, 29}, {34, 33},
			{34, 47}, {33, 30}, {29, 30}, {66, 65}, {66, 26}, {66, 29},
			{66, 21}, {65, 30}, {65, 33}, {65, 38}, {30, 38}, {29, 21},
			{35, 38}, {35, 47}, {38, 51}, {51, 53}, {47, 49}, {49, 38},
			{49, 50}, {51, 58}, {49, 58}, {49, 51},
		},
	}
	t.Sigmas = make([]float64, len(t.Keypoints))
	for i := range t.Sigmas {
		t.Sigmas[i] = apolloSigma
	}
	return t
}
